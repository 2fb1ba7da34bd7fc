package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedMessage is returned by Next when a message body cannot be decoded.
// The message has already been removed from the queue.
var ErrMalformedMessage = errors.New("malformed message")

// Permission is a set of rights granted on a queue.
type Permission uint8

const (
	PermissionRead Permission = 1 << iota
	PermissionAdd
	PermissionUpdate
	PermissionProcess
)

func (p Permission) Has(other Permission) bool {
	return p&other == other
}

func (p Permission) String() string {
	var sb strings.Builder
	for _, f := range []struct {
		perm Permission
		flag byte
	}{
		{PermissionRead, 'r'},
		{PermissionAdd, 'a'},
		{PermissionUpdate, 'u'},
		{PermissionProcess, 'p'},
	} {
		if p.Has(f.perm) {
			sb.WriteByte(f.flag)
		}
	}
	return sb.String()
}

type Message struct {
	ID      string
	Body    []byte
	Receipt string
}

// Queue is a message queue read by a single consumer.
type Queue interface {
	// Receive returns the next message or nil when the queue is empty.
	Receive(ctx context.Context) (*Message, error)
	Delete(ctx context.Context, msg *Message) error
	AccessURL(ctx context.Context, perm Permission) (string, error)
}

// Next receives the next message, decodes its JSON body into T and deletes it.
// It returns nil, nil when the queue is empty.
func Next[T any](ctx context.Context, q Queue) (*T, error) {
	msg, err := q.Receive(ctx)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, nil
	}

	var v T
	decodeErr := json.Unmarshal(msg.Body, &v)

	if err := q.Delete(ctx, msg); err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrMalformedMessage, msg.ID, decodeErr)
	}
	return &v, nil
}
