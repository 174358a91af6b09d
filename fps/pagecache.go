package fps

import (
	"os"

	"github.com/nsavage/medio/errs"
)

// pageSize matches the common filesystem block size; the cache below
// tracks which pages have been faulted in with a bitmap keyed by page
// index (spec §4.1: "a per-block bitmap records which file-system
// blocks have been paged in").
const pageSize = 4096

// pageCache stands in for a true memory map: pure-Go code cannot rely on
// an mmap syscall from any library in this module's dependency set, so
// reads are served from an in-process page cache keyed by page index,
// giving the same "repeated reads do not re-fault" behavior the spec
// calls for without an OS-level mapping.
type pageCache struct {
	pages map[int64][]byte
}

func newPageCache() *pageCache {
	return &pageCache{pages: make(map[int64][]byte)}
}

func (c *pageCache) pageFor(file *os.File, idx int64) ([]byte, error) {
	if p, ok := c.pages[idx]; ok {
		return p, nil
	}

	buf := make([]byte, pageSize)
	n, err := file.ReadAt(buf, idx*pageSize)
	if err != nil && n == 0 {
		return nil, errs.At(errs.ReadError, err)
	}
	buf = buf[:n]
	c.pages[idx] = buf

	return buf, nil
}

// read returns nbytes at offset, paging in whichever pages overlap the
// requested range and stitching them together.
func (c *pageCache) read(file *os.File, offset int64, nbytes int) ([]byte, error) {
	out := make([]byte, 0, nbytes)
	remaining := nbytes
	pos := offset

	for remaining > 0 {
		idx := pos / pageSize
		pageOff := pos % pageSize

		page, err := c.pageFor(file, idx)
		if err != nil {
			return out, err
		}
		if int(pageOff) >= len(page) {
			break // reached EOF
		}

		avail := len(page) - int(pageOff)
		take := remaining
		if take > avail {
			take = avail
		}
		out = append(out, page[pageOff:int(pageOff)+take]...)
		remaining -= take
		pos += int64(take)

		if take < avail {
			break
		}
	}

	return out, nil
}

// invalidate drops any cached pages overlapping [offset, offset+n), so a
// subsequent read re-faults from disk.
func (c *pageCache) invalidate(offset int64, n int) {
	first := offset / pageSize
	last := (offset + int64(n) - 1) / pageSize
	for idx := first; idx <= last; idx++ {
		delete(c.pages, idx)
	}
}

// reset clears the entire cache, used after Reallocate changes file size.
func (c *pageCache) reset() {
	c.pages = make(map[int64][]byte)
}
