package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Open reads a recording file.
func Open(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a recording from a zstd stream.
func Read(src io.Reader) (*Replay, error) {
	dec, err := zstd.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("replay: %w", err)
		}
		return nil, fmt.Errorf("%w: empty recording", ErrBadReplay)
	}
	rep := &Replay{}
	if err := json.Unmarshal(sc.Bytes(), &rep.Header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrBadReplay, err)
	}
	if rep.Header.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadReplay, rep.Header.Version)
	}

	for sc.Scan() {
		var fr Frame
		if err := json.Unmarshal(sc.Bytes(), &fr); err != nil {
			return nil, fmt.Errorf("%w: frame %d: %v", ErrBadReplay, len(rep.Frames)+1, err)
		}
		if want := uint64(len(rep.Frames) + 1); fr.Tick != want {
			return nil, fmt.Errorf("%w: frame tick %d, expected %d", ErrBadReplay, fr.Tick, want)
		}
		rep.Frames = append(rep.Frames, fr)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	return rep, nil
}
