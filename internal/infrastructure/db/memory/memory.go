// Package memory is an in-process KV medium used by tests and by the CLI when
// no durable medium is wanted.
package memory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("memory kv: closed")

type Store struct {
	mu     sync.Mutex
	data   map[string]string
	closed bool
}

func New() *Store {
	return &Store{data: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, ErrClosed
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.data[key] = value
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.data, key)
	return nil
}

func (s *Store) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	var n int64
	if raw, ok := s.data[key]; ok {
		v, err := strconv.ParseUint(raw, 10, 63)
		if err != nil {
			return 0, fmt.Errorf("memory incr %s: stored value is not a counter: %w", key, err)
		}
		n = int64(v)
	}
	n++
	s.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (s *Store) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
