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

// CamillaDSP websocket client

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	dialTimeout  = 2 * time.Second
	readTimeout  = 500 * time.Millisecond
	retryBackoff = 500 * time.Millisecond
)

// Camilla is a client for the CamillaDSP websocket control
// interface. Commands are JSON text frames, each answered with a
// result frame. A mutex serialises the command/reply exchange.
// Send failures leave the connection closed; Connect re-establishes
// it.
type Camilla struct {
	url  string
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewCamilla creates a client for the websocket URL. No connection
// is made until Connect is called.
func NewCamilla(url string) *Camilla {
	return &Camilla{url: url}
}

// Connect establishes the websocket connection, retrying with a
// fixed backoff until it succeeds.
func (c *Camilla) Connect() {
	for {
		err := c.dial()
		if err == nil {
			log.Printf("connected to %s", c.url)
			return
		}
		log.Printf("%s: %v; retrying", c.url, err)
		time.Sleep(retryBackoff)
	}
}

// Close closes the connection.
func (c *Camilla) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// SetVolume sets the playback volume in dB.
func (c *Camilla) SetVolume(db float64) error {
	_, err := c.command(map[string]float64{"SetVolume": db})
	return err
}

// ToggleMute toggles the mute state.
func (c *Camilla) ToggleMute() error {
	_, err := c.command("ToggleMute")
	return err
}

// GetVolume reads the current playback volume in dB.
func (c *Camilla) GetVolume() (float64, error) {
	reply, err := c.command("GetVolume")
	if err != nil {
		return 0, err
	}
	var vol struct {
		GetVolume struct {
			Result string  `json:"result"`
			Value  float64 `json:"value"`
		} `json:"GetVolume"`
	}
	if err := json.Unmarshal(reply, &vol); err != nil {
		return 0, fmt.Errorf("GetVolume: %v", err)
	}
	if vol.GetVolume.Result != "Ok" {
		return 0, fmt.Errorf("GetVolume: %s", vol.GetVolume.Result)
	}
	return vol.GetVolume.Value, nil
}

func (c *Camilla) dial() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	d := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := d.Dial(c.url, nil)
	if err != nil {
		return err
	}
	c.conn = conn
	return nil
}

// command sends one command and collects the reply. Every CamillaDSP
// command is acknowledged, so the reply is always read, keeping the
// connection drained even when the caller ignores the content.
func (c *Camilla) command(v interface{}) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, fmt.Errorf("no connection")
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return nil, err
	}
	c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	defer c.conn.SetReadDeadline(time.Time{})
	_, reply, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// sendRetry runs one command, reconnecting once on failure so the
// next poll can succeed. The command itself is not replayed; knob
// movement generates a fresh value almost immediately.
func sendRetry(c *Camilla, cmd func() error) {
	if err := cmd(); err != nil {
		log.Printf("camilla: %v; reconnecting", err)
		c.Connect()
	}
}
