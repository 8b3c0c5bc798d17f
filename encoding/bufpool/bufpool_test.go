package bufpool

import (
	"bytes"
	"testing"
)

func TestCopyBytes(t *testing.T) {
	b := Get()
	b.WriteString("chkjam")
	c := CopyBytes(b)
	Put(b)
	b = Get()
	b.WriteString("XXXXXX")
	if !bytes.Equal(c, []byte("chkjam")) {
		t.Errorf("copy changed to %q", c)
	}
	Put(b)
}

func TestPutResets(t *testing.T) {
	b := Get()
	b.WriteString("x")
	Put(b)
	if b.Len() != 0 {
		t.Errorf("len after Put = %d", b.Len())
	}

	big := bytes.NewBuffer(make([]byte, 0, MaxRetain+1))
	big.WriteString("y")
	Put(big)
	if big.Len() != 1 {
		t.Error("oversized buffer was reset and pooled")
	}
}
