package persist

import (
	"bytes"
	"strings"
	"testing"

	"github.com/joshuapare/xdgentry/avltree"
	"github.com/stretchr/testify/require"
)

func cmpString(a, b string) int { return strings.Compare(a, b) }

func TestRoundTripStrings(t *testing.T) {
	tree := avltree.New[string, string](cmpString)
	for _, k := range []string{"B", "A", "C", "D", "E"} {
		node, _ := tree.LookupOrInsert(k, func() string { return "v-" + k })
		_ = node
	}

	var buf bytes.Buffer
	wr := NewWriter(&buf)
	DumpTree(wr, tree, func(k string) string { return k }, func(wr *Writer, v string) {
		wr.PutString(v)
	})
	require.NoError(t, wr.Flush())

	r := NewReader(buf.Bytes())
	mapped, err := MapTree[string](r, cmpString, func(r *Reader) (string, error) {
		return r.String()
	})
	require.NoError(t, err)
	require.Equal(t, tree.Len(), mapped.Len())

	var gotKeys []string
	var gotVals []string
	mapped.Traverse(func(key string, value string) bool {
		gotKeys = append(gotKeys, key)
		gotVals = append(gotVals, value)
		return true
	})
	require.Equal(t, []string{"A", "B", "C", "D", "E"}, gotKeys)
	require.Equal(t, []string{"v-A", "v-B", "v-C", "v-D", "v-E"}, gotVals)

	for _, k := range []string{"A", "B", "C", "D", "E"} {
		v, ok := mapped.Lookup(k)
		require.True(t, ok)
		require.Equal(t, "v-"+k, v)
	}
	_, ok := mapped.Lookup("missing")
	require.False(t, ok)
}

func TestRoundTripEmptyTree(t *testing.T) {
	tree := avltree.New[string, string](cmpString)

	var buf bytes.Buffer
	wr := NewWriter(&buf)
	DumpTree(wr, tree, func(k string) string { return k }, func(wr *Writer, v string) {})
	require.NoError(t, wr.Flush())

	r := NewReader(buf.Bytes())
	mapped, err := MapTree[string](r, cmpString, func(r *Reader) (string, error) {
		return "", nil
	})
	require.NoError(t, err)
	require.Equal(t, 0, mapped.Len())
	require.Nil(t, mapped.Root())
}

func TestRoundTripNestedTree(t *testing.T) {
	type outer struct {
		label string
		inner *avltree.Tree[string, string]
	}

	tree := avltree.New[string, outer](cmpString)
	for _, k := range []string{"x", "y"} {
		inner := avltree.New[string, string](cmpString)
		inner.LookupOrInsert("a", func() string { return k + "-a" })
		inner.LookupOrInsert("b", func() string { return k + "-b" })
		tree.LookupOrInsert(k, func() outer { return outer{label: k, inner: inner} })
	}

	var buf bytes.Buffer
	wr := NewWriter(&buf)
	DumpTree(wr, tree, func(k string) string { return k }, func(wr *Writer, v outer) {
		wr.PutString(v.label)
		DumpTree(wr, v.inner, func(k string) string { return k }, func(wr *Writer, v string) {
			wr.PutString(v)
		})
	})
	require.NoError(t, wr.Flush())

	r := NewReader(buf.Bytes())
	mapped, err := MapTree[*MappedTree[string]](r, cmpString, func(r *Reader) (*MappedTree[string], error) {
		if _, err := r.String(); err != nil { // label, unused by the test
			return nil, err
		}
		return MapTree[string](r, cmpString, func(r *Reader) (string, error) {
			return r.String()
		})
	})
	require.NoError(t, err)
	require.Equal(t, 2, mapped.Len())

	xInner, ok := mapped.Lookup("x")
	require.True(t, ok)
	v, ok := xInner.Lookup("a")
	require.True(t, ok)
	require.Equal(t, "x-a", v)
}
