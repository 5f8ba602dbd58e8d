// Package main provides a minimal consumer plugin that logs flick gesture
// events to a file. It doubles as a reference for the plugin protocol:
// a Request JSON document on stdin, a Response JSON document on stdout.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Request mirrors the executor's request shape.
type Request struct {
	Event  map[string]any  `json:"event"`
	Config json.RawMessage `json:"config"`
}

// Response mirrors the executor's response shape.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(Response{Success: false, Error: fmt.Sprintf("failed to decode request: %v", err)})
		return
	}

	f, err := os.OpenFile("flicks.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		writeResponse(Response{Success: false, Error: fmt.Sprintf("failed to open log: %v", err)})
		return
	}
	defer f.Close()

	line, _ := json.Marshal(req.Event)
	fmt.Fprintf(f, "%s %s\n", time.Now().Format(time.RFC3339), line)

	writeResponse(Response{Success: true})
}

func writeResponse(resp Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}
