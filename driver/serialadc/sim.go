package serialadc

import (
	"errors"
)

// Simulator emulates the serial controller for tests. Samples holds
// the reading reported for each channel.
type Simulator struct {
	Samples [NumChannels]int32

	close   chan struct{}
	in      chan ioRequest
	out     chan ioResult
	pending []byte
}

type ioRequest struct {
	write bool
	data  []byte
}

type ioResult struct {
	bytes int
	err   error
}

func NewSimulator() *Simulator {
	sim := &Simulator{
		close: make(chan struct{}),
		in:    make(chan ioRequest),
		out:   make(chan ioResult),
	}
	go sim.run()
	return sim
}

func (s *Simulator) run() {
	for {
		select {
		case <-s.close:
			s.close <- struct{}{}
			return
		case r := <-s.in:
			var n int
			var err error
			if r.write {
				n, err = s.doWrite(r.data)
			} else {
				n, err = s.doRead(r.data)
			}
			s.out <- ioResult{n, err}
		}
	}
}

func (s *Simulator) doWrite(data []byte) (int, error) {
	n := 0
	for len(data) >= 2 {
		cmd, ch := data[0], data[1]
		if cmd != sampleCmd {
			return n, errors.New("invalid command")
		}
		if int(ch) >= NumChannels {
			return n, errors.New("invalid channel")
		}
		v := s.Samples[ch]
		s.pending = append(s.pending, sampleCmd, ch, byte(v>>8), byte(v))
		data = data[2:]
		n += 2
	}
	if len(data) > 0 {
		return n, errors.New("truncated request")
	}
	return n, nil
}

func (s *Simulator) doRead(data []byte) (int, error) {
	if len(s.pending) == 0 {
		return 0, errors.New("read underflow")
	}
	n := copy(data, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *Simulator) Read(data []byte) (int, error) {
	s.in <- ioRequest{false, data}
	r := <-s.out
	return r.bytes, r.err
}

func (s *Simulator) Write(data []byte) (int, error) {
	s.in <- ioRequest{true, data}
	r := <-s.out
	return r.bytes, r.err
}

func (s *Simulator) Close() error {
	s.close <- struct{}{}
	<-s.close
	return nil
}
