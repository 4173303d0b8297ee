package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(text string) *Node {
	return NewLeaf("text", nil, map[string]any{TextKey: text})
}

func container(name string, children ...*Node) *Node {
	c := NewContainer(name, nil, nil)
	c.Children = children
	return c
}

// ============================================================================
// Kind
// ============================================================================

func TestKind_String(t *testing.T) {
	assert.Equal(t, "child", KindContainer.String())
	assert.Equal(t, "leaf", KindLeaf.String())

	k, err := ParseKind("leaf")
	require.NoError(t, err)
	assert.Equal(t, KindLeaf, k)

	_, err = ParseKind("branch")
	assert.Error(t, err)
}

// ============================================================================
// Positions
// ============================================================================

func TestCalPosition_HelloDocument(t *testing.T) {
	text := leaf("Hello")
	para := container("paragraph", text)
	root := container("root", para)

	end := root.CalPosition(-1)

	assert.Equal(t, 10, end)
	assert.Equal(t, [2]int{0, 10}, [2]int{root.Start, root.End})
	assert.Equal(t, [2]int{1, 9}, [2]int{para.Start, para.End})
	assert.Equal(t, [2]int{2, 8}, [2]int{text.Start, text.End})
}

func TestCalPosition_EmptyContainer(t *testing.T) {
	p := container("paragraph")
	p.CalPosition(4)
	assert.Equal(t, 5, p.Start)
	assert.Equal(t, 6, p.End)
	assert.Equal(t, 0, p.Length())
}

func TestCalPosition_Invariants(t *testing.T) {
	root := container("root",
		container("paragraph", leaf("ab"), leaf("cd")),
		container("quote", container("paragraph", leaf("é ü"))),
		container("paragraph"),
		container("heading", leaf("")),
	)
	root.CalPosition(-1)

	var check func(n *Node)
	check = func(n *Node) {
		require.LessOrEqual(t, n.Start, n.End)
		if n.IsLeaf() {
			assert.Equal(t, n.Length()+1, n.End-n.Start, n.String())
			return
		}
		prevEnd := n.Start
		for i, c := range n.Children {
			assert.Greater(t, c.Start, n.Start, c.String())
			assert.Less(t, c.End, n.End, c.String())
			if i > 0 {
				assert.Greater(t, c.Start, prevEnd, c.String())
			}
			prevEnd = c.End
			check(c)
		}
	}
	check(root)
}

func TestLength(t *testing.T) {
	p := container("paragraph", leaf("ab"), leaf("cde"))
	assert.Equal(t, 7, p.Length())
	assert.Equal(t, 3, leaf("日本語").Length())

	p.CalPosition(0)
	assert.Equal(t, p.Length()+len(p.Children), p.End-p.Start-1)
}

// ============================================================================
// InsertText
// ============================================================================

func TestInsertText_Leaf(t *testing.T) {
	reg := DefaultRegistry()
	tests := []struct {
		name string
		at   int
		want string
	}{
		{"start", 2, "XHello"},
		{"middle", 4, "HeXllo"},
		{"end", 7, "HelloX"},
		{"before start clamps", -5, "XHello"},
		{"past end clamps", 100, "HelloX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := leaf("Hello")
			l.CalPosition(1)
			got, err := l.InsertText(reg, "X", tt.at)
			require.NoError(t, err)
			assert.Same(t, l, got)
			assert.Equal(t, tt.want, l.Text())
		})
	}
}

func TestInsertText_EmptyContainerFabricatesLeaf(t *testing.T) {
	reg := DefaultRegistry()
	p := container("paragraph")
	p.CalPosition(0)

	got, err := p.InsertText(reg, "hi", p.Start)
	require.NoError(t, err)
	require.Len(t, p.Children, 1)
	assert.Same(t, p.Children[0], got)
	assert.Equal(t, "text", got.Name)
	assert.Equal(t, "hi", got.Text())
}

func TestInsertText_ContainerDelegatesToFirstChild(t *testing.T) {
	reg := DefaultRegistry()
	first := leaf("ab")
	p := container("paragraph", first, leaf("cd"))
	p.CalPosition(0)

	got, err := p.InsertText(reg, "Z", first.Start)
	require.NoError(t, err)
	assert.Same(t, first, got)
	assert.Equal(t, "Zab", first.Text())
}

func TestInsertText_UnknownTextType(t *testing.T) {
	reg := NewRegistry()
	p := container("paragraph")
	_, err := p.InsertText(reg, "x", 0)
	assert.ErrorIs(t, err, ErrUnknownType)
}

// ============================================================================
// Delete
// ============================================================================

func TestDelete_LeafFullRangeLeavesEmptyLeaf(t *testing.T) {
	l := leaf("Hello")
	l.CalPosition(1)
	l.Delete(l.Start, l.End)
	assert.Equal(t, "", l.Text())
}

func TestDelete_LeafPartial(t *testing.T) {
	l := leaf("Hello")
	l.CalPosition(1) // [2,8]
	l.Delete(3, 5)
	assert.Equal(t, "Hlo", l.Text())

	l.Delete(5, 3)
	assert.Equal(t, "Hlo", l.Text(), "inverted range is a no-op")
}

func TestDelete_AcrossLeaves(t *testing.T) {
	ab, cd := leaf("ab"), leaf("cd")
	p := container("paragraph", ab, cd)
	p.CalPosition(0) // ab [2,5] cd [6,9]

	p.Delete(ab.Start+1, cd.Start+1)

	require.Len(t, p.Children, 2)
	assert.Equal(t, "a", ab.Text())
	assert.Equal(t, "d", cd.Text())
}

func TestDelete_DropsFullyCoveredEmptiedChildren(t *testing.T) {
	ab, mid, cd := leaf("ab"), leaf("xyz"), leaf("cd")
	p := container("paragraph", ab, mid, cd)
	p.CalPosition(0)

	p.Delete(ab.Start+1, cd.Start+1)

	require.Len(t, p.Children, 2)
	assert.Same(t, ab, p.Children[0])
	assert.Same(t, cd, p.Children[1])
}

func TestDelete_KeepsCaretHost(t *testing.T) {
	ab, cd := leaf("ab"), leaf("cd")
	p := container("paragraph", ab, cd)
	p.CalPosition(0)

	p.Delete(ab.Start, cd.End)

	require.NotEmpty(t, p.Children)
	assert.Same(t, ab, p.Children[0])
	assert.Equal(t, "", ab.Text())
}

func TestDelete_AbuttingContainerUntouched(t *testing.T) {
	p1 := container("paragraph", leaf("ab"))
	p2 := container("paragraph", leaf("cd"))
	root := container("root", p1, p2)
	root.CalPosition(-1)

	p1.Delete(p1.End, p2.End)
	assert.Equal(t, "ab", p1.PlainText())
}

// ============================================================================
// Split
// ============================================================================

func TestSplit_Leaf(t *testing.T) {
	reg := DefaultRegistry()
	l := NewLeaf("text", map[string]string{"bold": "true"}, map[string]any{TextKey: "abcd"})
	l.CalPosition(0) // [1,6]

	rest, err := l.Split(reg, 3)
	require.NoError(t, err)
	require.NotNil(t, rest)
	assert.Equal(t, "ab", l.Text())
	assert.Equal(t, "cd", rest.Text())
	assert.Equal(t, "true", rest.Style["bold"])
	assert.NotEqual(t, l.ID(), rest.ID())

	out, err := l.Split(reg, 100)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestSplit_ContainerInsideSecondLeaf(t *testing.T) {
	reg := DefaultRegistry()
	ab, cd := leaf("ab"), leaf("cd")
	p := container("paragraph", ab, cd)
	p.CalPosition(0)

	sib, err := p.Split(reg, cd.Start+1)
	require.NoError(t, err)
	require.NotNil(t, sib)

	assert.Equal(t, "paragraph", sib.Name)
	require.Len(t, p.Children, 2)
	assert.Equal(t, "ab", p.Children[0].Text())
	assert.Equal(t, "c", p.Children[1].Text())
	require.Len(t, sib.Children, 1)
	assert.Equal(t, "d", sib.Children[0].Text())
	assert.Equal(t, "abcd", p.PlainText()+sib.PlainText())
}

func TestSplit_ContainerAtStartMovesEverything(t *testing.T) {
	reg := DefaultRegistry()
	p := container("paragraph", leaf("ab"), leaf("cd"))
	p.CalPosition(0)

	sib, err := p.Split(reg, p.Start)
	require.NoError(t, err)
	assert.Empty(t, p.Children)
	assert.Len(t, sib.Children, 2)
}

func TestSplit_AppendsDoNotAlias(t *testing.T) {
	reg := DefaultRegistry()
	p := container("paragraph", leaf("ab"), leaf("cd"))
	p.CalPosition(0)

	sib, err := p.Split(reg, p.Children[0].Start+1)
	require.NoError(t, err)
	p.AppendChild(leaf("zz"))
	assert.Equal(t, "bcd", sib.PlainText())
}

func TestSplit_UnregisteredType(t *testing.T) {
	reg := DefaultRegistry()
	p := container("section", leaf("ab"))
	p.CalPosition(0)

	_, err := p.Split(reg, 3)
	assert.ErrorIs(t, err, ErrUnknownType)
}

// ============================================================================
// Merge / SelfMerge
// ============================================================================

func TestMerge(t *testing.T) {
	a := container("paragraph", leaf("ab"))
	b := container("paragraph", leaf("cd"))
	require.NoError(t, a.Merge(b))
	assert.Equal(t, "abcd", a.PlainText())
	assert.Empty(t, b.Children)

	q := container("quote", leaf("x"))
	err := a.Merge(q)
	assert.ErrorIs(t, err, ErrIncompatibleMerge)
	assert.Len(t, q.Children, 1)

	assert.NoError(t, leaf("a").Merge(leaf("b")))
}

func TestSelfMerge_CoalescesAdjacentContainers(t *testing.T) {
	q := container("quote",
		container("paragraph", leaf("a")),
		container("paragraph", leaf("b")),
		container("heading", leaf("c")),
		container("paragraph", leaf("d")),
	)
	q.CalPosition(-1)

	q.SelfMerge(q.Start, q.End)

	require.Len(t, q.Children, 3)
	assert.Equal(t, "ab", q.Children[0].PlainText())
	assert.Equal(t, "heading", q.Children[1].Name)
	assert.Equal(t, "d", q.Children[2].PlainText())
}

func TestSelfMerge_LeavesTextRunsAlone(t *testing.T) {
	p := container("paragraph", leaf("ab"), leaf("cd"))
	p.CalPosition(0)
	p.SelfMerge(p.Start, p.End)
	assert.Len(t, p.Children, 2)
}

func TestSelfMerge_Idempotent(t *testing.T) {
	build := func() *Node {
		return container("quote",
			container("quote", container("paragraph", leaf("a"))),
			container("quote", container("paragraph", leaf("b"))),
			container("paragraph", leaf("c")),
		)
	}
	once := build()
	once.CalPosition(-1)
	once.SelfMerge(once.Start, once.End)
	once.CalPosition(-1)

	twice := build()
	twice.CalPosition(-1)
	twice.SelfMerge(twice.Start, twice.End)
	twice.CalPosition(-1)
	twice.SelfMerge(twice.Start, twice.End)
	twice.CalPosition(-1)

	assert.Equal(t, shape(once), shape(twice))
	assert.Equal(t, "ab", once.Children[0].Children[0].PlainText())
}

func TestSelfMerge_OutsideRangeUntouched(t *testing.T) {
	q := container("quote",
		container("paragraph", leaf("a")),
		container("paragraph", leaf("b")),
	)
	q.CalPosition(-1)
	q.SelfMerge(q.End+5, q.End+10)
	assert.Len(t, q.Children, 2)
}

// ============================================================================
// Clone
// ============================================================================

func TestClone(t *testing.T) {
	src := container("paragraph", leaf("ab"))
	src.Data["meta"] = map[string]any{"k": "v"}

	c := src.Clone()
	assert.Equal(t, src.ID(), c.ID())
	assert.Equal(t, src.Children[0].ID(), c.Children[0].ID())
	assert.NotSame(t, src.Children[0], c.Children[0])

	c.Children[0].SetText("zz")
	c.Data["meta"].(map[string]any)["k"] = "changed"
	assert.Equal(t, "ab", src.PlainText())
	assert.Equal(t, "v", src.Data["meta"].(map[string]any)["k"])

	f := src.CloneFresh()
	assert.NotEqual(t, src.ID(), f.ID())
	assert.NotEqual(t, src.Children[0].ID(), f.Children[0].ID())
}

func TestChildManipulation(t *testing.T) {
	a, b, c := leaf("a"), leaf("b"), leaf("c")
	p := container("paragraph", a, c)

	p.InsertChild(1, b)
	assert.Equal(t, "abc", p.PlainText())
	assert.Equal(t, 1, p.IndexOf(b))

	assert.True(t, p.RemoveChild(a))
	assert.False(t, p.RemoveChild(a))
	assert.Equal(t, "bc", p.PlainText())
	assert.True(t, container("p").IsBlank())
	assert.False(t, p.IsBlank())
}

func shape(n *Node) string {
	if n.IsLeaf() {
		return n.Text()
	}
	s := n.Name + "("
	for _, c := range n.Children {
		s += shape(c) + ","
	}
	return s + ")"
}
