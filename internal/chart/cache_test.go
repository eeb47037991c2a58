package chart

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestChartRoundTrip(t *testing.T) {
	c := &Chart{
		Notes: []Note{
			{Time: 100 * time.Millisecond, Lane: 0},
			{Time: 520 * time.Millisecond, Lane: 2},
			{Time: 900 * time.Millisecond, Lane: 1},
		},
		Duration:   time.Second,
		Difficulty: 0.25,
		Lanes:      4,
	}
	path := filepath.Join(t.TempDir(), "chart.json")
	if err := WriteFile(path, c); nil != err {
		t.Fatal(err)
	}
	got, err := ReadFile(path)
	if nil != err {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(c, got) {
		t.Fatalf("got %+v, expected %+v", got, c)
	}
}

func TestReadFileRejectsCorrupt(t *testing.T) {
	if _, err := ReadFile(writeChart(t, "not a chart")); nil == err {
		t.Fatal("corrupt file accepted")
	}
}

func TestReadFileRejectsBadParams(t *testing.T) {
	path := writeChart(t, `{"Notes":[],"Duration":0,"Difficulty":0,"Lanes":4}`)
	if _, err := ReadFile(path); !errors.Is(err, ErrDifficulty) {
		t.Fatalf("got %v, expected %v", err, ErrDifficulty)
	}
}

func TestReadFileRejectsUnsorted(t *testing.T) {
	path := writeChart(t, `{"Notes":[{"Time":2000000000,"Lane":0},{"Time":1000000000,"Lane":1}],"Duration":3000000000,"Difficulty":0.2,"Lanes":4}`)
	if _, err := ReadFile(path); nil == err {
		t.Fatal("unsorted chart accepted")
	}
}

func TestReadFileRejectsLaneOutOfRange(t *testing.T) {
	path := writeChart(t, `{"Notes":[{"Time":1000000000,"Lane":4}],"Duration":3000000000,"Difficulty":0.2,"Lanes":4}`)
	if _, err := ReadFile(path); nil == err {
		t.Fatal("out of range lane accepted")
	}
}

func writeChart(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.json")
	if err := os.WriteFile(path, []byte(content), 0o644); nil != err {
		t.Fatal(err)
	}
	return path
}
