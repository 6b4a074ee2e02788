package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/url"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/luca-patrignani/holdem-server/channel"
	"github.com/luca-patrignani/holdem-server/client"
	"github.com/luca-patrignani/holdem-server/protocol"
)

func main() {
	addr := flag.String("server", "localhost:8080", "server address in host:port format")
	tokenPath := flag.String("token-file", "", "where to keep the session token, defaults to ~/.holdem/session")
	flag.Parse()

	logger := slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger))

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Hold", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("'em", pterm.FgDarkGray.ToStyle()),
	).Render()

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/play"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		pterm.Error.Printfln("Could not reach the server at %s: %v", *addr, err)
		os.Exit(1)
	}
	pterm.Info.Printfln("Connected to %s", *addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ch := channel.NewClientChannel(channel.NewWebsocketTransport(conn))
	defer ch.Close()

	c := client.New(logger, ch, client.Terminal{}, client.NewTokenFile(*tokenPath))
	switch err := c.Run(ctx); {
	case err == nil:
		pterm.Info.Println("Thanks for playing.")
	case errors.Is(err, protocol.ErrClosedConnection):
		pterm.Info.Printfln("Connection closed: %v", err)
	case errors.Is(err, context.Canceled):
		pterm.Info.Println("Leaving the table.")
	default:
		pterm.Error.Printfln("Connection lost: %v", err)
		os.Exit(1)
	}
}
