package buffer

import "testing"

func TestRopeBufferInsertRemove(t *testing.T) {
	b := NewRopeBufferFromBytes([]byte("hello world"))
	b.Insert(5, []byte(","))
	if got := string(b.Bytes()); got != "hello, world" {
		t.Fatalf("got %q", got)
	}
	b.Remove(0, 6)
	if got := string(b.Bytes()); got != "world" {
		t.Fatalf("got %q", got)
	}
	if !b.IsModified() {
		t.Fatal("expected IsModified() after mutation")
	}
}

func TestRopeBufferByteToColumn(t *testing.T) {
	b := NewRopeBufferFromBytes([]byte("abc\nd😊f\n"))
	// line 1 starts at offset 4 ("d😊f\n"); offset of 'f' is 4+1+4=9
	if got := b.ByteToColumn(9); got != 2 {
		t.Fatalf("ByteToColumn = %d, want 2", got)
	}
}

func TestRopeBufferLines(t *testing.T) {
	b := NewRopeBufferFromBytes([]byte("a\nb\nc"))
	it := b.Lines()
	var got []string
	for {
		line, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, string(line))
	}
	want := []string{"a\n", "b\n", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRopeBufferSaveNoPath(t *testing.T) {
	b := NewRopeBuffer()
	if err := b.Save(""); err == nil {
		t.Fatal("expected error saving with no path")
	}
}
