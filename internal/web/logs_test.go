package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLogBuffer_PartialWrites(t *testing.T) {
	b := NewLogBuffer(10)
	_, _ = b.Write([]byte("first li"))
	_, _ = b.Write([]byte("ne\nsecond\r\n\nthi"))

	lines, _ := b.Snapshot(10)
	if len(lines) != 2 || lines[0] != "first line" || lines[1] != "second" {
		t.Fatalf("lines=%q", lines)
	}

	_, _ = b.Write([]byte("rd\n"))
	lines, _ = b.Snapshot(10)
	if len(lines) != 3 || lines[2] != "third" {
		t.Fatalf("lines=%q", lines)
	}
}

func TestLogBuffer_DropsOldest(t *testing.T) {
	b := NewLogBuffer(2)
	_, _ = b.Write([]byte("a\nb\nc\n"))

	lines, dropped := b.Snapshot(0)
	if dropped != 1 {
		t.Fatalf("dropped=%d", dropped)
	}
	if strings.Join(lines, ",") != "b,c" {
		t.Fatalf("lines=%q", lines)
	}
	lines, _ = b.Snapshot(1)
	if len(lines) != 1 || lines[0] != "c" {
		t.Fatalf("tail=1 lines=%q", lines)
	}
}

func TestLogsHandler(t *testing.T) {
	b := NewLogBuffer(5)
	_, _ = b.Write([]byte("one\ntwo\nthree\n"))

	ts := httptest.NewServer(b.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/?tail=2")
	if err != nil {
		t.Fatalf("get logs: %v", err)
	}
	defer resp.Body.Close()
	var lr LogsResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if strings.Join(lr.Lines, ",") != "two,three" {
		t.Fatalf("lines=%q", lr.Lines)
	}

	resp2, err := http.Get(ts.URL + "/?format=text")
	if err != nil {
		t.Fatalf("get text logs: %v", err)
	}
	defer resp2.Body.Close()
	body, _ := io.ReadAll(resp2.Body)
	if string(body) != "one\ntwo\nthree\n" {
		t.Fatalf("body=%q", body)
	}

	resp3, err := http.Get(ts.URL + "/?tail=0")
	if err != nil {
		t.Fatalf("get bad tail: %v", err)
	}
	resp3.Body.Close()
	if resp3.StatusCode != http.StatusBadRequest {
		t.Fatalf("status code=%d", resp3.StatusCode)
	}
}
