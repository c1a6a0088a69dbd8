package rcon

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/config"
)

type fakeConn struct {
	responses map[string]string
	err       error
	closed    bool
	sent      []string
}

func (f *fakeConn) Execute(command string) (string, error) {
	f.sent = append(f.sent, command)
	if f.err != nil {
		return "", f.err
	}
	return f.responses[command], nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

var testRCON = config.RCON{Host: "127.0.0.1", Port: "25575", Password: "secret"}

func TestClientNotConfigured(t *testing.T) {
	c := NewClient(config.RCON{Host: "127.0.0.1"})
	_, err := c.Execute(context.Background(), "list")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Execute() error = %v, want %v", err, ErrNotConfigured)
	}
}

func TestClientReusesConnection(t *testing.T) {
	dials := 0
	fc := &fakeConn{responses: map[string]string{"list": "There are 0 players online"}}
	c := NewClient(testRCON)
	c.dial = func(addr, pass string, timeout time.Duration) (conn, error) {
		dials++
		if addr != "127.0.0.1:25575" || pass != "secret" {
			t.Errorf("dial(%q, %q)", addr, pass)
		}
		return fc, nil
	}

	for i := 0; i < 3; i++ {
		if _, err := c.Execute(context.Background(), "list"); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
	}
	if dials != 1 {
		t.Errorf("dials = %v, want %v", dials, 1)
	}
}

func TestClientDropsBrokenConnection(t *testing.T) {
	dials := 0
	broken := &fakeConn{err: errors.New("connection reset")}
	healthy := &fakeConn{responses: map[string]string{"list": "ok"}}
	c := NewClient(testRCON)
	c.dial = func(string, string, time.Duration) (conn, error) {
		dials++
		if dials == 1 {
			return broken, nil
		}
		return healthy, nil
	}

	if _, err := c.Execute(context.Background(), "list"); err == nil {
		t.Fatalf("Execute() on broken connection returned nil error")
	}
	if !broken.closed {
		t.Errorf("broken connection was not closed")
	}
	resp, err := c.Execute(context.Background(), "list")
	if err != nil || resp != "ok" {
		t.Errorf("Execute() = %q, %v, want ok, nil", resp, err)
	}
	if dials != 2 {
		t.Errorf("dials = %v, want %v", dials, 2)
	}
}

func TestClientDialFailure(t *testing.T) {
	c := NewClient(testRCON)
	c.dial = func(string, string, time.Duration) (conn, error) {
		return nil, errors.New("refused")
	}
	_, err := c.Execute(context.Background(), "list")
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("Execute() error = %v, want %v", err, ErrNotConnected)
	}
}

func TestProxyClientDialsPerCommand(t *testing.T) {
	var conns []*fakeConn
	p := NewProxyClient(config.RCON{Host: "proxy", Port: "27242", Password: "pw"})
	p.dial = func(addr, _ string, _ time.Duration) (conn, error) {
		if addr != "proxy:27242" {
			t.Errorf("addr = %v, want %v", addr, "proxy:27242")
		}
		fc := &fakeConn{responses: map[string]string{"glist": "[lobby] (1): Steve"}}
		conns = append(conns, fc)
		return fc, nil
	}

	for i := 0; i < 2; i++ {
		if _, err := p.Test(context.Background()); err != nil {
			t.Fatalf("Test() error: %v", err)
		}
	}
	if len(conns) != 2 {
		t.Fatalf("connections = %v, want %v", len(conns), 2)
	}
	for i, c := range conns {
		if !c.closed {
			t.Errorf("connection %d left open", i)
		}
	}
}

type staticExec struct {
	resp string
	err  error
}

func (s staticExec) Execute(context.Context, string) (string, error) { return s.resp, s.err }

func TestRun(t *testing.T) {
	tests := []struct {
		name   string
		exec   staticExec
		wantOK bool
	}{
		{"success", staticExec{resp: "Banned Steve"}, true},
		{"empty response", staticExec{resp: ""}, true},
		{"keyword", staticExec{resp: "Player not found"}, false},
		{"transport", staticExec{err: errors.New("timeout")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, res := Run(context.Background(), tt.exec, "ban Steve x")
			if res.IsOK() != tt.wantOK {
				t.Errorf("Run() ok = %v, want %v (%s)", res.IsOK(), tt.wantOK, res)
			}
		})
	}
}

func TestLooksFailed(t *testing.T) {
	tests := []struct {
		resp string
		want bool
	}{
		{"Banned player Steve", false},
		{"", false},
		{"ERROR: unknown command", true},
		{"No player was found", true},
		{"You do not have permission", true},
		{"Unable to ban", true},
		{"Could not find Steve", true},
	}
	for _, tt := range tests {
		if got := LooksFailed(tt.resp); got != tt.want {
			t.Errorf("LooksFailed(%q) = %v, want %v", tt.resp, got, tt.want)
		}
	}
}

func TestCommandBuilders(t *testing.T) {
	tests := []struct{ got, want string }{
		{BanCommand("Steve", "griefing spawn"), "banspaper:ban Steve griefing spawn"},
		{UnbanCommand("Steve"), "banspaper:unban Steve"},
		{VanillaBanCommand("Steve", "x"), "ban Steve x"},
		{PardonCommand("Steve"), "pardon Steve"},
		{KickCommand("Steve", "afk"), "kick Steve afk"},
		{TellCommand("Steve", "hi"), "tell Steve hi"},
		{SayCommand("hello all"), "say hello all"},
		{WhitelistCommand("java", "Steve", "u1"), "whitelist add Steve"},
		{WhitelistCommand("bedrock", ".Steve", "u1"), "fwhitelist add u1"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("command = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestParseOnlinePlayers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "glist",
			in:   "[lobby] (2): Steve, Alex\n[survival] (1): Notch\nThere are 3 players online.",
			want: []string{"Steve", "Alex", "Notch"},
		},
		{
			name: "plain list",
			in:   "Steve, Alex",
			want: []string{"Steve", "Alex"},
		},
		{
			name: "single name",
			in:   "Steve\n",
			want: []string{"Steve"},
		},
		{
			name: "duplicates and junk",
			in:   "[a] (1): Steve\nSteve, ThisNameIsWayTooLongForMC, [x]",
			want: []string{"Steve"},
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseOnlinePlayers(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseOnlinePlayers() = %v, want %v", got, tt.want)
			}
		})
	}
}
