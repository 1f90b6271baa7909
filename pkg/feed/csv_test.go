package feed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_DefaultLayout(t *testing.T) {
	records, err := ParseCSV(strings.NewReader("1704067200,10,11,9,12,100\n1704153600,11,12,10,13,200\n"))
	require.NoError(t, err)
	require.Len(t, records, 2)

	rec := records[0]
	require.Equal(t, "2024-01-01", rec.Time.Format("2006-01-02"))
	require.Equal(t, 10.0, rec.Open)
	require.Equal(t, 11.0, rec.Close)
	require.Equal(t, 9.0, rec.Low)
	require.Equal(t, 12.0, rec.High)
	require.Equal(t, 100.0, rec.Volume)
	require.True(t, rec.IsOHLC())
	require.True(t, rec.Has(core.FieldVolume))
}

func TestReadCSV_Header(t *testing.T) {
	path := filepath.Join(t.TempDir(), "btc.csv")
	data := "time,high,low,open,close,volume,trades\n1704067200,12,9,10,11,100,7\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	records, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, 12.0, records[0].High)
	require.Equal(t, 10.0, records[0].Open)

	_, err = ReadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestParseCSV_Errors(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	require.ErrorIs(t, err, core.ErrEmptyData)

	_, err = ParseCSV(strings.NewReader("time,open,close\n1704067200,1,2\n"))
	require.ErrorIs(t, err, core.ErrInvalidRecord)

	_, err = ParseCSV(strings.NewReader("1704067200,x,11,9,12,100\n"))
	require.Error(t, err)
}

func TestLimit(t *testing.T) {
	records := bars(60)

	limited, err := Limit(records, "30d")
	require.NoError(t, err)
	require.Len(t, limited, 30)
	require.Equal(t, records[30].Time, limited[0].Time)

	limited, err = Limit(records, "1w")
	require.NoError(t, err)
	require.Len(t, limited, 7)

	_, err = Limit(records, "soon")
	require.Error(t, err)

	limited, err = Limit(nil, "1d")
	require.NoError(t, err)
	require.Empty(t, limited)
}
