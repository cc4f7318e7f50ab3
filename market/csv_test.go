package market

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadKlinesCSV(t *testing.T) {
	data := `Timestamp,Open,High,Low,Close,Volume,Extra
1700000060,101,102,100,101.5,12,x
1700000000,100,101,99,100.5,10,y
bad,1,1,1,1,1,z
2023-11-14T22:15:00Z,102,103,101,102.5,,w
`
	bars, err := ReadKlinesCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, time.Unix(1700000000, 0).UTC(), bars[0].Ts)
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 10.0, bars[0].Volume)
	assert.Equal(t, 101.5, bars[1].Close)
	assert.Equal(t, 0.0, bars[2].Volume)
}

func TestReadKlinesCSV_MissingColumn(t *testing.T) {
	_, err := ReadKlinesCSV(strings.NewReader("time,open,high,close\n1,1,1,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "low")
}

func TestReadKlinesCSV_Empty(t *testing.T) {
	_, err := ReadKlinesCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestLoadKlinesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.csv")
	content := "date,open,high,low,close\n2024-01-01,10,11,9,10.5\n2024-01-02,10.5,12,10,11\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	bars, err := LoadKlinesCSV(path)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 2, bars[1].Ts.Day())

	_, err = LoadKlinesCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
