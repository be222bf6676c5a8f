// Package source opens the byte stream of a document: a local file, an
// http(s) URL, or standard input. Compressed streams are unwrapped by their
// magic bytes.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// Stdin is the argument that selects standard input.
const Stdin = "-"

// DefaultHTTPTimeout bounds fetching a document over the network.
const DefaultHTTPTimeout = 30 * time.Second

var (
	// ErrStdinTerminal is returned when standard input is an interactive terminal.
	ErrStdinTerminal = errors.New("standard input is a terminal; pipe a document in or pass a path")

	// ErrHTTPStatus is returned for a non-2xx response.
	ErrHTTPStatus = errors.New("unexpected HTTP status")
)

// Kind is where a document comes from.
type Kind int

const (
	KindFile Kind = iota
	KindURL
	KindStdin
)

func (k Kind) String() string {
	switch k {
	case KindURL:
		return "url"
	case KindStdin:
		return "stdin"
	default:
		return "file"
	}
}

// Classify reports the kind of a document argument.
func Classify(arg string) Kind {
	switch {
	case arg == Stdin:
		return KindStdin
	case strings.HasPrefix(arg, "http://"), strings.HasPrefix(arg, "https://"):
		return KindURL
	default:
		return KindFile
	}
}

// Options configures Open.
type Options struct {
	HTTPTimeout time.Duration
	Client      *http.Client

	// Stdin and StdinFd default to os.Stdin.
	Stdin   io.Reader
	StdinFd int
	// IsTerminal defaults to term.IsTerminal.
	IsTerminal func(fd int) bool
}

func (o Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	timeout := o.HTTPTimeout
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Open returns the decompressed document named by arg. The caller closes it.
func Open(ctx context.Context, arg string, opts Options) (io.ReadCloser, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	switch Classify(arg) {
	case KindStdin:
		rc, err = openStdin(opts)
	case KindURL:
		rc, err = fetch(ctx, arg, opts.client())
	default:
		rc, err = os.Open(arg)
	}
	if err != nil {
		return nil, err
	}
	return Decompress(rc)
}

func openStdin(opts Options) (io.ReadCloser, error) {
	in, fd := opts.Stdin, opts.StdinFd
	if in == nil {
		in, fd = os.Stdin, int(os.Stdin.Fd())
	}
	isTerminal := opts.IsTerminal
	if isTerminal == nil {
		isTerminal = term.IsTerminal
	}
	if isTerminal(fd) {
		return nil, ErrStdinTerminal
	}
	return io.NopCloser(in), nil
}

func fetch(ctx context.Context, url string, client *http.Client) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, */*;q=0.5")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: GET %s: %s", ErrHTTPStatus, url, resp.Status)
	}
	return resp.Body, nil
}
