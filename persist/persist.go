// Package persist implements the on-disk wire format used to serialize an
// avltree.Tree to a file and reconstruct it from a previously-written byte
// region (typically one obtained from cachefile.Open) in a single forward
// pass over that region.
//
// Reconstruction is a single forward DFS pass that eagerly decodes every
// node: it materializes one MappedNode per stream position, decodes its
// value with the caller's decoder, and links it to its parent as it is
// read. Strings read from the region (keys, and any string a value decoder
// reads) are zero-copy views over it, so a mapped tree's memory cost is the
// node headers plus whatever the value decoder allocates. A mapped tree
// cannot hold raw pointers into the region itself, since the region is not
// managed by the Go runtime.
package persist

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"unsafe"

	"github.com/joshuapare/xdgentry/avltree"
)

// treeHeaderSentinel prefixes every serialized tree. It has no structural
// meaning; MapTree only checks it to reject a stream that does not begin
// where the caller thinks it does.
var treeHeaderSentinel = [8]byte{0xDE, 0xAD, 0xBE, 0xEF, 0xDE, 0xAD, 0xBE, 0xEF}

// Writer serializes a tree in depth-first pre-order: header, then one node
// record per DFS position, each followed immediately by its key and value
// bytes; absent children are written as a single zero marker byte with no
// key/value bytes.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter wraps w for tree serialization.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Err returns the first error encountered by any Put call.
func (wr *Writer) Err() error { return wr.err }

// Flush flushes any buffered output to the underlying writer.
func (wr *Writer) Flush() error {
	if wr.err != nil {
		return wr.err
	}
	return wr.w.Flush()
}

func (wr *Writer) fail(err error) {
	if wr.err == nil {
		wr.err = err
	}
}

// PutByte writes a single byte.
func (wr *Writer) PutByte(b byte) {
	if wr.err != nil {
		return
	}
	if err := wr.w.WriteByte(b); err != nil {
		wr.fail(err)
	}
}

// PutUvarint writes v as a variable-length unsigned integer.
func (wr *Writer) PutUvarint(v uint64) {
	if wr.err != nil {
		return
	}
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	if _, err := wr.w.Write(buf[:n]); err != nil {
		wr.fail(err)
	}
}

// PutInt64 writes v as a fixed-width little-endian 8-byte integer. Used for
// mtimes, where the watcher list's validity check needs an exact value, not
// a variable encoding that could behave oddly on negative timestamps.
func (wr *Writer) PutInt64(v int64) {
	if wr.err != nil {
		return
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	if _, err := wr.w.Write(buf[:]); err != nil {
		wr.fail(err)
	}
}

// PutBytes writes b verbatim with no length prefix.
func (wr *Writer) PutBytes(b []byte) {
	if wr.err != nil {
		return
	}
	if _, err := wr.w.Write(b); err != nil {
		wr.fail(err)
	}
}

// PutString writes a length-prefixed string.
func (wr *Writer) PutString(s string) {
	wr.PutUvarint(uint64(len(s)))
	wr.PutBytes([]byte(s))
}

// WriteTreeHeader emits the sentinel tree header that begins every
// serialized tree. It carries no payload; ReadTreeHeader consumes and
// validates it so MapTree can sanity-check stream position.
func WriteTreeHeader(wr *Writer) {
	wr.PutBytes(treeHeaderSentinel[:])
}

// DumpTree writes tree in DFS pre-order: header, then nodes. keyEnc encodes
// a key as its wire string; valEnc writes a value's payload using wr
// directly, which lets value encoders recurse into DumpTree themselves for
// nested trees (e.g. an App's group tree, or an AppGroup's entry tree).
func DumpTree[K any, V any](wr *Writer, tree *avltree.Tree[K, V], keyEnc func(K) string, valEnc func(*Writer, V)) {
	WriteTreeHeader(wr)
	dumpNode(wr, tree.Root(), keyEnc, valEnc)
}

func dumpNode[K any, V any](wr *Writer, n *avltree.Node[K, V], keyEnc func(K) string, valEnc func(*Writer, V)) {
	if n == nil {
		wr.PutByte(0)
		return
	}
	wr.PutByte(1)
	wr.PutString(keyEnc(n.Key()))
	valEnc(wr, n.Value())
	dumpNode(wr, n.Left(), keyEnc, valEnc)
	dumpNode(wr, n.Right(), keyEnc, valEnc)
}

// Reader walks a byte region produced by Writer. It never copies bytes out
// of data except where the caller explicitly asks for a copy; String
// returns a zero-copy view using unsafe.String, matching the mapped-mode
// "no allocation" contract for key/value bytes that live inside a
// cachefile.File's backing region.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader over data, starting at offset 0.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ErrShortRead is returned when a Reader runs out of bytes mid-field,
// indicating a truncated or corrupt cache stream.
var ErrShortRead = fmt.Errorf("persist: unexpected end of stream")

// Pos returns the current read offset.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the unread tail of the region.
func (r *Reader) Remaining() []byte { return r.data[r.pos:] }

// Byte reads a single byte.
func (r *Reader) Byte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrShortRead
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// Uvarint reads a variable-length unsigned integer.
func (r *Reader) Uvarint() (uint64, error) {
	v, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		return 0, ErrShortRead
	}
	r.pos += n
	return v, nil
}

// Int64 reads a fixed-width little-endian 8-byte integer.
func (r *Reader) Int64() (int64, error) {
	if r.pos+8 > len(r.data) {
		return 0, ErrShortRead
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return int64(v), nil
}

// Bytes reads n raw bytes without copying them.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, ErrShortRead
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// String reads a length-prefixed string as a zero-copy view over the
// Reader's backing buffer.
func (r *Reader) String() (string, error) {
	n, err := r.Uvarint()
	if err != nil {
		return "", err
	}
	b, err := r.Bytes(int(n))
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", nil
	}
	return unsafe.String(&b[0], len(b)), nil
}

// ReadTreeHeader consumes and validates the placeholder tree header.
func ReadTreeHeader(r *Reader) error {
	b, err := r.Bytes(len(treeHeaderSentinel))
	if err != nil {
		return err
	}
	for i := range treeHeaderSentinel {
		if b[i] != treeHeaderSentinel[i] {
			return fmt.Errorf("persist: corrupt tree header")
		}
	}
	return nil
}

// MappedNode is a read-only view of one tree position reconstructed from a
// serialized stream. Its Key is a zero-copy string over the backing buffer;
// Left, Right and Parent are linked during the single forward
// reconstruction pass in MapTree.
type MappedNode[V any] struct {
	Key                 string
	Value               V
	Left, Right, Parent *MappedNode[V]
}

// MappedTree is the read-only, allocation-light counterpart to
// avltree.Tree produced by mapping a serialized stream back in. Its shape
// is exactly the shape it had when dumped (no rebalancing occurs on load).
type MappedTree[V any] struct {
	root *MappedNode[V]
	size int
	cmp  func(a, b string) int
}

// Root returns the tree's root node, or nil if the tree is empty.
func (t *MappedTree[V]) Root() *MappedNode[V] { return t.root }

// Len returns the number of nodes in the tree.
func (t *MappedTree[V]) Len() int { return t.size }

// Lookup walks the tree using cmp, mirroring avltree.Tree.Lookup's
// contract but over the mapped node graph.
func (t *MappedTree[V]) Lookup(key string) (V, bool) {
	cur := t.root
	for cur != nil {
		res := t.cmp(key, cur.Key)
		switch {
		case res == 0:
			return cur.Value, true
		case res < 0:
			cur = cur.Left
		default:
			cur = cur.Right
		}
	}
	var zero V
	return zero, false
}

// Traverse walks the tree in key order.
func (t *MappedTree[V]) Traverse(visit func(key string, value V) bool) {
	var walk func(n *MappedNode[V]) bool
	walk = func(n *MappedNode[V]) bool {
		if n == nil {
			return true
		}
		if !walk(n.Left) {
			return false
		}
		if !visit(n.Key, n.Value) {
			return false
		}
		return walk(n.Right)
	}
	walk(t.root)
}

// MapTree reconstructs a tree previously written by DumpTree. cmp orders
// keys the same way the original tree's comparator did. valDec decodes one
// value's payload from r; it may itself call MapTree to decode a nested
// tree, since r's cursor is threaded through recursively just as it is on
// the write side.
func MapTree[V any](r *Reader, cmp func(a, b string) int, valDec func(*Reader) (V, error)) (*MappedTree[V], error) {
	if err := ReadTreeHeader(r); err != nil {
		return nil, err
	}
	root, size, err := mapNode[V](r, nil, valDec)
	if err != nil {
		return nil, err
	}
	return &MappedTree[V]{root: root, size: size, cmp: cmp}, nil
}

func mapNode[V any](r *Reader, parent *MappedNode[V], valDec func(*Reader) (V, error)) (*MappedNode[V], int, error) {
	present, err := r.Byte()
	if err != nil {
		return nil, 0, err
	}
	if present == 0 {
		return nil, 0, nil
	}

	key, err := r.String()
	if err != nil {
		return nil, 0, err
	}
	value, err := valDec(r)
	if err != nil {
		return nil, 0, fmt.Errorf("persist: decode value for key %q: %w", key, err)
	}

	n := &MappedNode[V]{Key: key, Value: value, Parent: parent}
	size := 1

	left, leftSize, err := mapNode[V](r, n, valDec)
	if err != nil {
		return nil, 0, err
	}
	n.Left = left
	size += leftSize

	right, rightSize, err := mapNode[V](r, n, valDec)
	if err != nil {
		return nil, 0, err
	}
	n.Right = right
	size += rightSize

	return n, size, nil
}
