package sha3pool

import (
	"encoding/hex"
	"testing"
)

func TestSum256(t *testing.T) {
	cases := []struct {
		in   [][]byte
		want string
	}{
		{nil, "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a"},
		{[][]byte{[]byte("abc")}, "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532"},
		{[][]byte{[]byte("a"), []byte("bc")}, "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532"},
	}
	for _, c := range cases {
		got := Sum256(c.in...)
		if hex.EncodeToString(got[:]) != c.want {
			t.Errorf("Sum256(%q) = %x want %s", c.in, got, c.want)
		}
	}
}

func TestPutResets(t *testing.T) {
	h := Get256()
	h.Write([]byte("garbage"))
	Put256(h)

	got := Sum256([]byte("abc"))
	if hex.EncodeToString(got[:]) != "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532" {
		t.Errorf("pooled hash was not reset: %x", got)
	}
}
