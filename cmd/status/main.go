// Command status prints the monitor's /status endpoint as indented
// JSON, for quick operator checks.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "Base URL of the running monitor")
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(*addr + "/status")
	if err != nil {
		log.Fatalf("fetching status: %v", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("status endpoint returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("reading status: %v", err)
	}

	var pretty map[string]any
	if err := json.Unmarshal(body, &pretty); err != nil {
		log.Fatalf("decoding status: %v", err)
	}

	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		log.Fatalf("encoding status: %v", err)
	}

	fmt.Fprintln(os.Stdout, string(out))
}
