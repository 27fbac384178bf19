package sink

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"gnss-monitor/internal/fix"
	"gnss-monitor/internal/nmea"
)

var errFake = errors.New("fake failure")

func nmeaLine(payload string) string {
	return fmt.Sprintf("$%s*%02X", payload, nmea.Checksum(payload))
}

func sampleResult(t *testing.T) fix.Result {
	t.Helper()
	sentences := []string{
		nmeaLine("GNRMC,085505.00,A,3540.23799,N,13922.23373,E,0.407,,110422,,,A,V"),
		nmeaLine("GNGGA,085505.00,3540.23799,N,13922.23373,E,1,10,0.99,148.0,M,38.9,M,,"),
		nmeaLine("GNGSA,A,3,19,04,,,,,,,,,,,1.79,0.99,1.49,1"),
		nmeaLine("GPGSV,1,1,02,19,48,320,27,22,10,100,,1"),
	}
	_, res := fix.Classify(fix.NewState(), fix.Collect(sentences), fix.DefaultBounds(), false)
	res.At = time.Unix(1649667305, 0)
	return res
}

type recordingSink struct {
	name    string
	err     error
	got     []fix.Result
	closed  bool
	closeEr error
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Publish(_ context.Context, r fix.Result) error {
	s.got = append(s.got, r)
	return s.err
}

func (s *recordingSink) Close() error {
	s.closed = true
	return s.closeEr
}

func TestMulti_FailureDoesNotStopOthers(t *testing.T) {
	var logs bytes.Buffer
	a := &recordingSink{name: "a", err: errFake}
	b := &recordingSink{name: "b"}
	m := NewMulti(zerolog.New(&logs), a)
	m.Add(b)

	if err := m.Publish(context.Background(), sampleResult(t)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(a.got) != 1 || len(b.got) != 1 || m.Len() != 2 {
		t.Fatalf("a=%d b=%d", len(a.got), len(b.got))
	}
	if !strings.Contains(logs.String(), `"sink":"a"`) {
		t.Fatalf("failure not logged: %s", logs.String())
	}
}

func TestMulti_CloseJoinsErrors(t *testing.T) {
	a := &recordingSink{name: "a", closeEr: errFake}
	b := &recordingSink{name: "b"}
	err := NewMulti(zerolog.Nop(), a, b).Close()
	if !errors.Is(err, errFake) || !a.closed || !b.closed {
		t.Fatalf("err=%v a=%v b=%v", err, a.closed, b.closed)
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("bad log line %q: %v", sc.Text(), err)
		}
		out = append(out, m)
	}
	return out
}

func TestConsole_Summary(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(zerolog.New(&buf), ConsoleOptions{})
	if err := c.Publish(context.Background(), sampleResult(t)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("lines=%d want 1", len(lines))
	}
	l := lines[0]
	if l["message"] != "fix" || l["health"] != "valid" || l["utc"] != "2022-04-11 08:55:05" || l["alt_m"] != 148.0 {
		t.Fatalf("line=%v", l)
	}
	errs, _ := l["errors"].(map[string]any)
	if errs["checksum"] != false || errs["timeout"] != false {
		t.Fatalf("errors=%v", errs)
	}
}

func TestConsole_DetailAndNaN(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(zerolog.New(&buf), ConsoleOptions{Sentences: true, Satellites: true})
	res := sampleResult(t)
	if err := c.Publish(context.Background(), res); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	lines := decodeLines(t, &buf)
	// 4 sentences, 1 summary, 2 satellites.
	if len(lines) != 7 {
		t.Fatalf("lines=%d want 7", len(lines))
	}
	if lines[0]["checksum_ok"] != true || lines[0]["type"] != "RMC" {
		t.Fatalf("sentence line=%v", lines[0])
	}
	if lines[5]["svid"] != 19.0 || lines[5]["active"] != true || lines[6]["active"] != false {
		t.Fatalf("satellite lines=%v %v", lines[5], lines[6])
	}

	buf.Reset()
	_ = c.Publish(context.Background(), fix.EmptyResult())
	for _, l := range decodeLines(t, &buf) {
		if _, ok := l["lat"]; ok {
			t.Fatalf("NaN latitude logged: %v", l)
		}
	}
}

type fakeToken struct {
	err     error
	timeout bool
	done    chan struct{}
}

func (t *fakeToken) Wait() bool                     { return !t.timeout }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return !t.timeout }
func (t *fakeToken) Error() error                   { return t.err }
func (t *fakeToken) Done() <-chan struct{} {
	if t.done == nil {
		t.done = make(chan struct{})
		close(t.done)
	}
	return t.done
}

type fakeMQTTClient struct {
	topic        string
	qos          byte
	retained     bool
	payload      []byte
	tok          *fakeToken
	disconnected bool
}

func (c *fakeMQTTClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.topic, c.qos, c.retained = topic, qos, retained
	c.payload, _ = payload.([]byte)
	return c.tok
}

func (c *fakeMQTTClient) Disconnect(uint) { c.disconnected = true }

func TestMQTT_PublishesSnapshot(t *testing.T) {
	client := &fakeMQTTClient{tok: &fakeToken{}}
	m := newMQTT(client, MQTTConfig{Topic: "gnss/fix", QoS: 1, Retained: true})
	if err := m.Publish(context.Background(), sampleResult(t)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if client.topic != "gnss/fix" || client.qos != 1 || !client.retained {
		t.Fatalf("client=%+v", client)
	}
	var snap fix.Snapshot
	if err := json.Unmarshal(client.payload, &snap); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if snap.Health != "valid" || snap.LatDeg == nil || snap.NumSV != 10 || len(snap.Satellites) != 2 {
		t.Fatalf("snapshot=%+v", snap)
	}
	if err := m.Close(); err != nil || !client.disconnected {
		t.Fatalf("Close: %v", err)
	}
}

func TestMQTT_PublishErrors(t *testing.T) {
	m := newMQTT(&fakeMQTTClient{tok: &fakeToken{err: errFake}}, MQTTConfig{Topic: "t"})
	if err := m.Publish(context.Background(), sampleResult(t)); !errors.Is(err, errFake) {
		t.Fatalf("err=%v", err)
	}
	m = newMQTT(&fakeMQTTClient{tok: &fakeToken{timeout: true}}, MQTTConfig{Topic: "t"})
	if err := m.Publish(context.Background(), sampleResult(t)); err == nil || !strings.Contains(err.Error(), "timeout") {
		t.Fatalf("err=%v want timeout", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Publish(ctx, sampleResult(t)); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v want canceled", err)
	}
}

func TestNewMQTT_RequiresBrokerAndTopic(t *testing.T) {
	if _, err := NewMQTT(MQTTConfig{Topic: "t"}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error")
	}
}

type fakeSender struct {
	sent   [][]byte
	closed bool
}

func (s *fakeSender) Send(p []byte) error {
	s.sent = append(s.sent, p)
	return nil
}

func (s *fakeSender) Close() error {
	s.closed = true
	return nil
}

func TestUDP_SendsSnapshotDatagram(t *testing.T) {
	tx := &fakeSender{}
	u := &UDP{tx: tx}
	if err := u.Publish(context.Background(), sampleResult(t)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(tx.sent) != 1 || !bytes.Contains(tx.sent[0], []byte(`"utc":"2022-04-11 08:55:05"`)) {
		t.Fatalf("sent=%q", tx.sent)
	}
	if err := u.Close(); err != nil || !tx.closed {
		t.Fatalf("Close: %v", err)
	}
}
