package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voxmail/voxmail/internal/chat"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to the chat hub and answer messages",
	Long: `Connect to the configured chat hub over WebSocket and process incoming
messages until interrupted.

Text and audio messages are both handled; audio is transcribed before
classification. Replies are posted back to the sender's conversation.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a.startBackground(ctx)

	client, err := chat.Dial(a.cfg.Chat.WSURL, a.cfg.Chat.ReconnectWait)
	if err != nil {
		return fmt.Errorf("connect to chat hub: %w", err)
	}
	defer client.Close()

	// Unblock the read loop on shutdown.
	go func() {
		<-ctx.Done()
		client.Close()
	}()

	fmt.Printf("Connected to %s\n", a.cfg.Chat.WSURL)
	a.logger.Log("serving on %s", a.cfg.Chat.WSURL)

	for {
		msg, err := client.Read()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !chat.IsClosed(err) {
				a.logger.Log("read: %v", err)
			}
			if err := client.Reconnect(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("reconnect to chat hub: %w", err)
			}
			continue
		}

		if msg.Sender == "assistant" {
			continue
		}

		reply, err := a.handle(ctx, msg)
		if err != nil {
			a.logger.Log("handle message: %v", err)
			reply = "Sorry, something went wrong handling that. Please try again."
		}
		if err := client.SendText(msg.ConversationID, reply); err != nil {
			a.logger.Log("send reply: %v", err)
		}
	}
}
