package e32

import "errors"

var errBus = errors.New("bus failure")

// fakeSerial replays rx and records every byte written. failWriteAt and
// failReadAt are 1-based call numbers that fail; 0 disables the failure.
type fakeSerial struct {
	rx          []byte
	tx          []byte
	writes      int
	reads       int
	failWriteAt int
	failReadAt  int
}

func (s *fakeSerial) WriteByte(c byte) error {
	s.writes++
	if s.writes == s.failWriteAt {
		return errBus
	}
	s.tx = append(s.tx, c)
	return nil
}

func (s *fakeSerial) ReadByte() (byte, error) {
	s.reads++
	if s.reads == s.failReadAt || len(s.rx) == 0 {
		return 0, errBus
	}
	v := s.rx[0]
	s.rx = s.rx[1:]
	return v, nil
}

// fakePin records the levels it was driven to.
type fakePin struct {
	levels []bool
	err    error
}

func (p *fakePin) High() error {
	if p.err != nil {
		return p.err
	}
	p.levels = append(p.levels, true)
	return nil
}

func (p *fakePin) Low() error {
	if p.err != nil {
		return p.err
	}
	p.levels = append(p.levels, false)
	return nil
}

func (p *fakePin) last() (bool, bool) {
	if len(p.levels) == 0 {
		return false, false
	}
	return p.levels[len(p.levels)-1], true
}

func commandReady() *E32 {
	obj := New()
	obj.SetUartDataRate(CommandBaudRate)
	return obj
}
