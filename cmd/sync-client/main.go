package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	synchub "citizenhub/internal/sync"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "TCP event server address")
	raw := flag.Bool("raw", false, "print events as received")
	flag.Parse()

	for {
		if err := run(*addr, *raw); err != nil {
			log.Printf("[sync-client] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second)
	}
}

func run(addr string, raw bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync-client] connected to %s", addr)

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Bytes()
		if raw {
			fmt.Println(string(line))
			continue
		}

		var ev synchub.SyncEvent
		if err := json.Unmarshal(line, &ev); err != nil || ev.Type != synchub.SyncedEventType {
			fmt.Println(string(line))
			continue
		}
		if ev.Error != "" {
			fmt.Printf("%s %-6s %q failed: %s\n", ev.At.Local().Format(time.Kitchen), ev.Source, ev.Key, ev.Error)
			continue
		}
		fmt.Printf("%s %-6s %q %d legislators\n", ev.At.Local().Format(time.Kitchen), ev.Source, ev.Key, ev.Count)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}
