package engine

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/zeebo/blake3"
)

type digest [32]byte

func (d digest) String() string {
	return hex.EncodeToString(d[:])
}

var hashBufs = sync.Pool{
	New: func() any {
		b := make([]byte, 64<<10)
		return &b
	},
}

// contentDigest returns the BLAKE3 digest of everything readable from path.
func contentDigest(path string) (digest, error) {
	var d digest

	f, err := os.Open(path)
	if err != nil {
		return d, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	bufp := hashBufs.Get().(*[]byte)
	defer hashBufs.Put(bufp)

	h := blake3.New()
	if _, err := io.CopyBuffer(h, f, *bufp); err != nil {
		return d, fmt.Errorf("hash %s: %w", path, err)
	}
	h.Sum(d[:0])
	return d, nil
}
