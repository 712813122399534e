// Package store persists encoded graphs in etcd, keyed by id: the key is
// /jgraph/{id}, the value is the raw wire bytes codec.Marshal produced.
package store

import (
	"context"
	"fmt"

	clientv3 "go.etcd.io/etcd/client/v3"
)

const keyPrefix = "/jgraph/"

// Store persists encoded graph bytes in etcd under a TTL-backed lease, so a
// crashed writer's entries expire instead of lingering as ghosts.
type Store struct {
	client *clientv3.Client
}

// New connects to the given etcd endpoints.
func New(endpoints []string) (*Store, error) {
	c, err := clientv3.New(clientv3.Config{Endpoints: endpoints})
	if err != nil {
		return nil, err
	}
	return &Store{client: c}, nil
}

// Close releases the underlying etcd client connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// Put stores data under id with a ttl-second lease, renewed automatically
// via KeepAlive until the caller's context is cancelled.
func (s *Store) Put(ctx context.Context, id string, data []byte, ttl int64) error {
	lease, err := s.client.Grant(ctx, ttl)
	if err != nil {
		return withRetry(ctx, func(ctx context.Context) error {
			lease, err = s.client.Grant(ctx, ttl)
			return err
		})
	}

	_, err = s.client.Put(ctx, keyPrefix+id, string(data), clientv3.WithLease(lease.ID))
	if err != nil {
		return err
	}

	ch, err := s.client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return err
	}
	go func() {
		for range ch {
		}
	}()
	return nil
}

// Get returns the bytes stored under id.
func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	var resp *clientv3.GetResponse
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		resp, err = s.client.Get(ctx, keyPrefix+id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Kvs) == 0 {
		return nil, fmt.Errorf("store: %q not found", id)
	}
	return resp.Kvs[0].Value, nil
}

// Delete removes the entry stored under id.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.Delete(ctx, keyPrefix+id)
	return err
}

// List returns the ids of every graph currently stored, found via a prefix
// scan over the key namespace.
func (s *Store) List(ctx context.Context) ([]string, error) {
	resp, err := s.client.Get(ctx, keyPrefix, clientv3.WithPrefix(), clientv3.WithKeysOnly())
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		ids = append(ids, string(kv.Key[len(keyPrefix):]))
	}
	return ids, nil
}
