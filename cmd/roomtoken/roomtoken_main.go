// roomtoken 用 server.jwt_secret 给房间签发 ws 接入 token。
//
//	go run ./cmd/roomtoken -room r1 -ttl 2h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"PlanetWars/internal/shared/security"
	"PlanetWars/internal/shared/serverconfig"
)

func main() {
	room := flag.String("room", "", "房间 id")
	ttl := flag.Duration("ttl", security.DefaultTTL, "token 有效期")
	flag.Parse()

	if *room == "" {
		fmt.Fprintln(os.Stderr, "missing -room")
		os.Exit(2)
	}
	if err := serverconfig.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	tok, err := issue(serverconfig.Conf().Server.JWTSecret, *room, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(tok)
}

func issue(secret, room string, ttl time.Duration) (string, error) {
	tok, err := security.Award(secret, room, ttl)
	if err != nil {
		return "", fmt.Errorf("award token for room %s: %w", room, err)
	}
	return tok, nil
}
