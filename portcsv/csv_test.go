package portcsv

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `Switch,Port,VLAN,Running
1,1,298,UP
1,2,90,down
1, 3 ,192, up
2,1,511,UP
not,a,row,UP
1,48,1,DOWN
2,1,90,
`

func TestRead(t *testing.T) {
	inv, err := Read(strings.NewReader(sample), Options{})
	require.NoError(t, err)

	want := &Inventory{
		Switches: []*Switch{
			{Number: 1, Ports: map[int]PortState{
				1:  {VLAN: 298, Up: true},
				2:  {VLAN: 90},
				3:  {VLAN: 192, Up: true},
				48: {VLAN: 1},
			}},
			// the last row for a port wins
			{Number: 2, Ports: map[int]PortState{1: {VLAN: 90}}},
		},
		Skipped: 1,
	}
	if diff := cmp.Diff(want, inv); diff != "" {
		t.Errorf("Read() mismatch (-want +got):\n%s", diff)
	}
}

func TestRead_SwitchOrder(t *testing.T) {
	data := "Switch,Port,VLAN,Running\n3,1,1,UP\n1,1,1,UP\n3,2,1,UP\n2,1,1,UP\n"
	inv, err := Read(strings.NewReader(data), Options{})
	require.NoError(t, err)

	var order []int
	for _, s := range inv.Switches {
		order = append(order, s.Number)
	}
	assert.Equal(t, []int{3, 1, 2}, order)
	assert.Len(t, inv.Switch(3).Ports, 2)
	assert.Nil(t, inv.Switch(7))
}

func TestRead_ColumnsAnywhere(t *testing.T) {
	data := "Name,Running,VLAN,Port,Switch\nuplink, up ,90,24,1\n"
	inv, err := Read(strings.NewReader(data), Options{})
	require.NoError(t, err)
	require.Len(t, inv.Switches, 1)
	assert.Equal(t, PortState{VLAN: 90, Up: true}, inv.Switches[0].Ports[24])
}

func TestRead_NoRunningColumn(t *testing.T) {
	inv, err := Read(strings.NewReader("Switch,Port,VLAN\n1,5,90\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, PortState{VLAN: 90}, inv.Switches[0].Ports[5])
}

func TestRead_ShortRows(t *testing.T) {
	data := "Switch,Port,VLAN,Running\n1,5\n1,6,90\n\n1,7,90,UP,extra\n"
	inv, err := Read(strings.NewReader(data), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, inv.Skipped)
	assert.Equal(t, map[int]PortState{6: {VLAN: 90}, 7: {VLAN: 90, Up: true}}, inv.Switches[0].Ports)
}

func TestRead_MissingColumn(t *testing.T) {
	for _, data := range []string{
		"",
		"Port,VLAN,Running\n1,1,UP\n",
		"switch,port,vlan\n1,1,1\n",
	} {
		_, err := Read(strings.NewReader(data), Options{})
		assert.True(t, errors.Is(err, ErrMissingColumn), "%q: %v", data, err)
	}
}

func TestRead_Charsets(t *testing.T) {
	t.Run("utf-8 bom", func(t *testing.T) {
		data := "\xef\xbb\xbfSwitch,Port,VLAN,Running\n1,1,90,UP\n"
		inv, err := Read(strings.NewReader(data), Options{})
		require.NoError(t, err)
		assert.Equal(t, PortState{VLAN: 90, Up: true}, inv.Switches[0].Ports[1])
	})

	t.Run("utf-16 bom", func(t *testing.T) {
		var buf bytes.Buffer
		buf.Write([]byte{0xff, 0xfe})
		for _, r := range "Switch,Port,VLAN,Running\r\n2,9,192,UP\r\n" {
			buf.Write([]byte{byte(r), 0})
		}
		inv, err := Read(&buf, Options{})
		require.NoError(t, err)
		require.Len(t, inv.Switches, 1)
		assert.Equal(t, 2, inv.Switches[0].Number)
		assert.Equal(t, PortState{VLAN: 192, Up: true}, inv.Switches[0].Ports[9])
	})

	t.Run("label", func(t *testing.T) {
		// 0xe9 is "é" in latin-1, invalid alone in UTF-8
		data := "Switch,Port,VLAN,Running,Caf\xe9\n1,1,90,UP,x\n"
		inv, err := Read(strings.NewReader(data), Options{Charset: "windows-1252"})
		require.NoError(t, err)
		assert.Len(t, inv.Switches, 1)
	})

	t.Run("unknown label", func(t *testing.T) {
		_, err := Read(strings.NewReader(sample), Options{Charset: "klingon"})
		assert.Error(t, err)
	})
}

func TestVLANCounts(t *testing.T) {
	inv, err := Read(strings.NewReader(sample), Options{})
	require.NoError(t, err)
	assert.Equal(t, map[int]int{298: 1, 90: 2, 192: 1, 1: 1}, inv.VLANCounts())
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rack1.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	inv, err := ReadFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "rack1.csv", inv.Source)

	_, err = ReadFile(filepath.Join(dir, "missing.csv"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.csv", "notes.txt", "c.csv.bak"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.csv"), 0o755))

	files, err := Find(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")}, files)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "rack1.png", OutputPath("rack1.csv", "", ".png"))
	assert.Equal(t, filepath.Join("data", "rack1.vlans.png"), OutputPath(filepath.Join("data", "rack1.csv"), "", ".vlans.png"))
	assert.Equal(t, filepath.Join("out", "rack1.svg"), OutputPath(filepath.Join("data", "rack1.csv"), "out", ".svg"))
}
