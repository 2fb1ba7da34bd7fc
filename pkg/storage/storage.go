package storage

import (
	"context"
	"strings"
	"time"
)

// Permission is a set of rights granted by an access url.
type Permission uint8

const (
	PermissionRead Permission = 1 << iota
	PermissionWrite
	PermissionList
	PermissionDelete
)

const DefaultAccessURLExpiry = 7 * 24 * time.Hour

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
		{PermissionWrite, 'w'},
		{PermissionDelete, 'd'},
		{PermissionList, 'l'},
	} {
		if p.Has(f.perm) {
			sb.WriteByte(f.flag)
		}
	}
	return sb.String()
}

// Object describes a stored blob.
type Object struct {
	Name         string
	Size         int64
	LastModified time.Time
}

// Container is a flat blob container. Names are relative to the container.
type Container interface {
	Name() string
	Upload(ctx context.Context, name string, data []byte) error
	Download(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]Object, error)
	DeleteAll(ctx context.Context) error
	// AccessURL returns a time limited url for the container. Only backends
	// that can scope a url honour perm: the S3 backend returns the same
	// bucket url for every perm and leaves the rights to the credentials of
	// whoever uses it.
	AccessURL(ctx context.Context, perm Permission) (string, error)
}

type options struct {
	expiry time.Duration
}

type Option func(*options)

// WithAccessURLExpiry sets how long urls returned by AccessURL stay valid.
func WithAccessURLExpiry(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.expiry = d
		}
	}
}

func newOptions(opts []Option) options {
	o := options{expiry: DefaultAccessURLExpiry}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
