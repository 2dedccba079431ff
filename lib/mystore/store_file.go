package mystore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// fileStore persists its full key-value content as one JSON file per store.
// It plays the role browser local-storage plays for the web client: small,
// tab-scoped state that must survive a restart.
type fileStore[T any] struct {
	sync.Mutex
	filename string
	items    map[string]T
}

func newFileStore[T any](c context.Context, dir string, name string) (*fileStore[T], func(), error) {
	err := os.MkdirAll(dir, 0o700)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating state dir %s: %s", dir, err)
	}

	s := &fileStore[T]{
		filename: filepath.Join(dir, name+".json"),
		items:    make(map[string]T),
	}

	err = s.load()
	if err != nil {
		return nil, nil, err
	}

	return s, func() {}, nil
}

func (s *fileStore[T]) load() error {
	data, err := os.ReadFile(s.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("error reading state file %s: %s", s.filename, err)
	}

	err = json.Unmarshal(data, &s.items)
	if err != nil {
		return fmt.Errorf("error parsing state file %s: %s", s.filename, err)
	}

	return nil
}

func (s *fileStore[T]) flush() error {
	data, err := json.MarshalIndent(s.items, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshalling state file %s: %s", s.filename, err)
	}

	err = os.WriteFile(s.filename, data, 0o600)
	if err != nil {
		return fmt.Errorf("error writing state file %s: %s", s.filename, err)
	}

	return nil
}

func (s *fileStore[T]) Put(c context.Context, uid string, value T) error {
	s.Lock()
	defer s.Unlock()

	s.items[uid] = value

	return s.flush()
}

func (s *fileStore[T]) Get(c context.Context, uid string) (T, bool, error) {
	s.Lock()
	defer s.Unlock()

	result, exists := s.items[uid]

	return result, exists, nil
}

func (s *fileStore[T]) Delete(c context.Context, uid string) error {
	s.Lock()
	defer s.Unlock()

	delete(s.items, uid)

	return s.flush()
}

func (s *fileStore[T]) List(c context.Context) ([]T, error) {
	s.Lock()
	defer s.Unlock()

	result := make([]T, 0, len(s.items))
	for _, v := range s.items {
		result = append(result, v)
	}

	return result, nil
}
