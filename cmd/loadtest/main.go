// Command loadtest drives a running chat server with many concurrent
// clients: each authenticates from a credential list, then issues global
// broadcasts while draining everything the server sends back.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const lorem = "lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod tempor incididunt ut labore et dolore magna aliqua"

var loremWords = strings.Fields(lorem)

type stats struct {
	connected    atomic.Int64
	authFailed   atomic.Int64
	sent         atomic.Int64
	received     atomic.Int64
	writeErrors  atomic.Int64
	dialFailures atomic.Int64
}

func main() {
	addr := flag.String("addr", "localhost:12345", "server address")
	clients := flag.Int("clients", 50, "number of concurrent clients")
	messages := flag.Int("messages", 20, "broadcasts per client")
	interval := flag.Duration("interval", 100*time.Millisecond, "delay between broadcasts")
	usersPath := flag.String("users", "users.txt", "credential file (username:password per line)")
	flag.Parse()

	creds, err := loadCredentials(*usersPath)
	if err != nil {
		log.Fatalf("Failed to load credentials: %v", err)
	}
	if len(creds) == 0 {
		log.Fatalf("No credentials in %s", *usersPath)
	}

	log.Printf("Starting %d clients against %s (%d messages each)", *clients, *addr, *messages)

	var st stats
	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < *clients; i++ {
		cred := creds[i%len(creds)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			runClient(*addr, cred, *messages, *interval, &st)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			log.Printf("connected=%d sent=%d received=%d auth_failed=%d write_errors=%d",
				st.connected.Load(), st.sent.Load(), st.received.Load(),
				st.authFailed.Load(), st.writeErrors.Load())
		case <-done:
			elapsed := time.Since(start)
			fmt.Printf("\n--- load test complete in %v ---\n", elapsed.Truncate(time.Millisecond))
			fmt.Printf("clients:       %d (dial failures: %d, auth failures: %d)\n",
				*clients, st.dialFailures.Load(), st.authFailed.Load())
			fmt.Printf("broadcasts:    %d sent (%.0f/s), %d write errors\n",
				st.sent.Load(), float64(st.sent.Load())/elapsed.Seconds(), st.writeErrors.Load())
			fmt.Printf("deliveries:    %d lines received\n", st.received.Load())
			return
		}
	}
}

type credential struct {
	username string
	password string
}

func loadCredentials(path string) ([]credential, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var creds []credential
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		creds = append(creds, credential{username: line[:idx], password: line[idx+1:]})
	}
	return creds, scanner.Err()
}

func runClient(addr string, cred credential, messages int, interval time.Duration, st *stats) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		st.dialFailures.Add(1)
		return
	}
	defer conn.Close()

	// The server prompts for username and password; it reads them as lines,
	// so we can answer both without waiting for the prompt text.
	if _, err := fmt.Fprintf(conn, "%s\n%s\n", cred.username, cred.password); err != nil {
		st.writeErrors.Add(1)
		return
	}

	// Drain everything the server sends. The first line carries the auth
	// verdict (preceded by the prompt text, which has no delimiter of its own).
	reader := bufio.NewReader(conn)
	verdict, err := reader.ReadString('\n')
	if err != nil || strings.Contains(verdict, "Authentication failed") {
		st.authFailed.Add(1)
		return
	}
	st.connected.Add(1)
	st.received.Add(1)

	go func() {
		for {
			if _, err := reader.ReadString('\n'); err != nil {
				return
			}
			st.received.Add(1)
		}
	}()

	for i := 0; i < messages; i++ {
		text := randomSentence()
		if _, err := fmt.Fprintf(conn, "/broadcast %s\n", text); err != nil {
			st.writeErrors.Add(1)
			return
		}
		st.sent.Add(1)
		time.Sleep(interval)
	}
}

func randomSentence() string {
	n := 3 + rand.Intn(8)
	words := make([]string, n)
	for i := range words {
		words[i] = loremWords[rand.Intn(len(loremWords))]
	}
	return strings.Join(words, " ")
}
