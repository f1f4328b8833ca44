// Command chat is a terminal client for a running Waguri backend. It drives
// the same session logic as the browser widget, which keeps the session
// package honest about being UI-agnostic.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"waguri-backend/internal/chatsession"
	"waguri-backend/internal/services"
)

func main() {
	url := flag.String("url", "http://localhost:8080/api/v1/chat", "chat endpoint URL")
	lang := flag.String("lang", chatsession.LangIndonesian, "language tag (id or en)")
	timeout := flag.Duration("timeout", 60*time.Second, "request timeout")
	flag.Parse()

	endpoint := services.NewEndpointClient(*url, *timeout)
	session := chatsession.New(endpoint, chatsession.Config{Lang: *lang})

	fmt.Println(chatsession.Greeting(session.Language()))
	fmt.Println("Commands: /lang id|en, /clear, /quit")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit":
			return
		case line == "/clear":
			session.Clear()
			msgs := session.Messages()
			fmt.Println(msgs[len(msgs)-1].Content)
			continue
		case strings.HasPrefix(line, "/lang "):
			tag := strings.TrimSpace(strings.TrimPrefix(line, "/lang "))
			session.SetLanguage(tag)
			fmt.Printf("language: %s\n", session.Language())
			continue
		}

		reply, err := session.Submit(context.Background(), line)
		switch {
		case errors.Is(err, chatsession.ErrEmptyMessage):
			continue
		case errors.Is(err, chatsession.ErrMessageTooLong):
			fmt.Println("message too long, not sent")
			continue
		case err != nil:
			log.Printf("submit failed: %v", err)
			continue
		}

		if reply.Err {
			fmt.Printf("[!] %s\n", reply.Content)
		} else {
			fmt.Printf("Waguri: %s\n", reply.Content)
		}
	}
}
