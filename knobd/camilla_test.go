// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aamcrae/config"
	"github.com/aamcrae/knob"
	"github.com/gorilla/websocket"
)

// fakeCamilla is a websocket server speaking enough of the CamillaDSP
// control protocol for the client tests: every command is answered,
// and the raw commands are recorded.
type fakeCamilla struct {
	srv    *httptest.Server
	mu     sync.Mutex
	cmds   []string
	volume float64
	fail   bool
}

func newFakeCamilla(t *testing.T) *fakeCamilla {
	f := &fakeCamilla{volume: -30}
	var up websocket.Upgrader
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			f.mu.Lock()
			f.cmds = append(f.cmds, string(msg))
			reply := f.handle(string(msg))
			f.mu.Unlock()
			if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
				return
			}
		}
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeCamilla) handle(msg string) string {
	if f.fail {
		return `{"GetVolume":{"result":"Error"}}`
	}
	switch {
	case msg == `"GetVolume"`:
		return fmt.Sprintf(`{"GetVolume":{"result":"Ok","value":%g}}`, f.volume)
	case msg == `"ToggleMute"`:
		return `{"ToggleMute":{"result":"Ok"}}`
	case strings.HasPrefix(msg, `{"SetVolume"`):
		return `{"SetVolume":{"result":"Ok"}}`
	}
	return `{"Unknown":{"result":"Error"}}`
}

func (f *fakeCamilla) url() string {
	return "ws" + strings.TrimPrefix(f.srv.URL, "http")
}

func (f *fakeCamilla) received() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.cmds...)
}

// TestCamilla_SetVolume checks the volume command wire format.
func TestCamilla_SetVolume(t *testing.T) {
	f := newFakeCamilla(t)
	c := NewCamilla(f.url())
	c.Connect()
	defer c.Close()
	if err := c.SetVolume(-20.5); err != nil {
		t.Fatalf("SetVolume failed: %v", err)
	}
	cmds := f.received()
	if len(cmds) != 1 || cmds[0] != `{"SetVolume":-20.5}` {
		t.Errorf("expected SetVolume command, got %v", cmds)
	}
}

// TestCamilla_GetVolume checks the reply value is decoded.
func TestCamilla_GetVolume(t *testing.T) {
	f := newFakeCamilla(t)
	f.volume = -23.5
	c := NewCamilla(f.url())
	c.Connect()
	defer c.Close()
	v, err := c.GetVolume()
	if err != nil {
		t.Fatalf("GetVolume failed: %v", err)
	}
	if v != -23.5 {
		t.Errorf("expected -23.5, got %g", v)
	}
}

// TestCamilla_GetVolumeError checks a non-Ok result is surfaced.
func TestCamilla_GetVolumeError(t *testing.T) {
	f := newFakeCamilla(t)
	f.fail = true
	c := NewCamilla(f.url())
	c.Connect()
	defer c.Close()
	if _, err := c.GetVolume(); err == nil {
		t.Errorf("expected error from failed GetVolume")
	}
}

// TestCamilla_ToggleMute checks the mute command wire format.
func TestCamilla_ToggleMute(t *testing.T) {
	f := newFakeCamilla(t)
	c := NewCamilla(f.url())
	c.Connect()
	defer c.Close()
	if err := c.ToggleMute(); err != nil {
		t.Fatalf("ToggleMute failed: %v", err)
	}
	cmds := f.received()
	if len(cmds) != 1 || cmds[0] != `"ToggleMute"` {
		t.Errorf("expected ToggleMute command, got %v", cmds)
	}
}

// TestCamilla_NoConnection checks commands fail cleanly before
// Connect is called.
func TestCamilla_NoConnection(t *testing.T) {
	c := NewCamilla("ws://127.0.0.1:1")
	if err := c.SetVolume(-10); err == nil {
		t.Errorf("expected error without a connection")
	}
}

// TestCamilla_SendRetry checks a failed command triggers a reconnect
// so the next command succeeds.
func TestCamilla_SendRetry(t *testing.T) {
	f := newFakeCamilla(t)
	c := NewCamilla(f.url())
	defer c.Close()
	sendRetry(c, func() error { return c.SetVolume(-20) })
	if err := c.SetVolume(-20); err != nil {
		t.Fatalf("SetVolume after reconnect failed: %v", err)
	}
	cmds := f.received()
	if len(cmds) != 1 || cmds[0] != `{"SetVolume":-20}` {
		t.Errorf("expected single SetVolume after reconnect, got %v", cmds)
	}
}

// TestVolumeMapping checks the dial to dB conversion both ways.
func TestVolumeMapping(t *testing.T) {
	d := knob.NewDial("volume", 0, 100, false)
	cc := &camillaConfig{MinDB: -60, MaxDB: 0}
	points := []struct {
		dial int
		db   float64
	}{
		{0, -60},
		{50, -30},
		{100, 0},
	}
	for _, p := range points {
		d.Set(p.dial)
		if db := toDB(d, cc); db != p.db {
			t.Errorf("dial %d: expected %g dB, got %g", p.dial, p.db, db)
		}
		if v := fromDB(d, cc, p.db); v != p.dial {
			t.Errorf("%g dB: expected dial %d, got %d", p.db, p.dial, v)
		}
	}
}

// parseConf writes a config file and parses it.
func parseConf(t *testing.T, content string) *config.Config {
	t.Helper()
	file := filepath.Join(t.TempDir(), "knobd.conf")
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	conf, err := config.ParseFile(file)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return conf
}

// TestCamillaConf checks the [camilla] section parsing.
func TestCamillaConf(t *testing.T) {
	cc, err := camillaConf(parseConf(t, "[camilla]\nurl=ws://127.0.0.1:1234\nvoldb=-50,-10\n"))
	if err != nil {
		t.Fatalf("camillaConf failed: %v", err)
	}
	if cc.URL != "ws://127.0.0.1:1234" {
		t.Errorf("expected url, got %s", cc.URL)
	}
	if cc.MinDB != -50 || cc.MaxDB != -10 {
		t.Errorf("expected range -50,-10, got %g,%g", cc.MinDB, cc.MaxDB)
	}
}

// TestCamillaConf_Defaults checks the dB range default.
func TestCamillaConf_Defaults(t *testing.T) {
	cc, err := camillaConf(parseConf(t, "[camilla]\nurl=ws://127.0.0.1:1234\n"))
	if err != nil {
		t.Fatalf("camillaConf failed: %v", err)
	}
	if cc.MinDB != -60 || cc.MaxDB != 0 {
		t.Errorf("expected range -60,0, got %g,%g", cc.MinDB, cc.MaxDB)
	}
}

// TestCamillaConf_Errors checks rejection of bad sections.
func TestCamillaConf_Errors(t *testing.T) {
	bad := []struct {
		name    string
		content string
	}{
		{"nosection", "[volume]\nencoder=1,2\n"},
		{"nourl", "[camilla]\nvoldb=-60,0\n"},
		{"badrange", "[camilla]\nurl=ws://h\nvoldb=0,-60\n"},
	}
	for _, b := range bad {
		if _, err := camillaConf(parseConf(t, b.content)); err == nil {
			t.Errorf("%s: expected error", b.name)
		}
	}
}
