package main

import (
	"context"

	"github.com/google/uuid"

	"github.com/voxmail/voxmail/internal/chat"
	"github.com/voxmail/voxmail/internal/tui"
)

// runLocalChat runs the assistant against a terminal chat session.
func runLocalChat() error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.startBackground(ctx)

	p, appModel := tui.NewProgram()
	conversationID := uuid.New().String()

	appModel.SetSubmitHandler(func(text string) {
		go func() {
			msg := &chat.Message{
				ConversationID: conversationID,
				Sender:         "user",
				Kind:           chat.KindText,
				Text:           text,
			}
			reply, err := a.handle(ctx, msg)
			if err != nil {
				p.Send(tui.AssistantErrorMsg{Err: err})
			} else {
				p.Send(tui.AssistantReplyMsg{Text: reply})
			}
			if s, err := a.mgr.Peek(conversationID); err == nil && s != nil {
				p.Send(tui.WorkflowStateMsg{State: s.State})
			}
		}()
	})

	// The local session has no chat hub to lose.
	go p.Send(tui.ConnectionMsg{Connected: true})

	_, err = p.Run()
	return err
}
