package channel

import (
	"errors"
	"sync"
)

// Pipe returns two connected in-memory transports, one per side. Frames
// written on one side are read, in order, on the other. Closing either side
// fails all pending and future operations on both. Used by tests and by any
// in-process client.
func Pipe() (Transport, Transport) {
	ab := make(chan []byte, 64)
	ba := make(chan []byte, 64)
	done := make(chan struct{})
	shared := &pipeShared{done: done}
	a := &pipeTransport{name: "pipe-a", in: ba, out: ab, shared: shared}
	b := &pipeTransport{name: "pipe-b", in: ab, out: ba, shared: shared}
	return a, b
}

type pipeShared struct {
	once sync.Once
	done chan struct{}
}

type pipeTransport struct {
	name   string
	in     <-chan []byte
	out    chan<- []byte
	shared *pipeShared
}

var errPipeClosed = errors.New("pipe closed")

func (p *pipeTransport) WriteMessage(data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	select {
	case <-p.shared.done:
		return errPipeClosed
	case p.out <- buf:
		return nil
	}
}

func (p *pipeTransport) ReadMessage() ([]byte, error) {
	// Drain frames written before the close so the peer's last words, such
	// as a connection-end notice, still arrive.
	select {
	case data := <-p.in:
		return data, nil
	default:
	}
	select {
	case <-p.shared.done:
		return nil, errPipeClosed
	case data := <-p.in:
		return data, nil
	}
}

func (p *pipeTransport) Close() error {
	p.shared.once.Do(func() { close(p.shared.done) })
	return nil
}

func (p *pipeTransport) RemoteAddr() string { return p.name }
