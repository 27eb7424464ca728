package osc

// testCase pairs a packet with its wire encoding.
type testCase struct {
	name    string
	obj     Packet
	raw     []byte
	wantErr bool
}

const zero = string(byte(0))

// nulls returns a string of `i` nulls.
func nulls(i int) string {
	s := ""
	for j := 0; j < i; j++ {
		s += zero
	}
	return s
}

// immediateTag is NewImmediateTimetag on the wire.
var immediateTag = nulls(7) + "\x01"

// noteRaw is "/note" with float32 arguments 60 and 100.
var noteRaw = "/note" + nulls(3) + ",ff" + nulls(1) + "\x42\x70\x00\x00" + "\x42\xc8\x00\x00"

var messageTestCases = []testCase{
	{
		name: "no_args",
		obj:  NewMessage("/a/b/c"),
		raw:  []byte("/a/b/c" + nulls(2) + "," + nulls(3)),
	},
	{
		name: "string_arg",
		obj:  NewMessage("/d/e/f", "foo"),
		raw:  []byte("/d/e/f" + nulls(2) + ",s" + nulls(2) + "foo" + nulls(1)),
	},
	{
		name: "note_floats",
		obj:  NewMessage("/note", float32(60), float32(100)),
		raw:  []byte(noteRaw),
	},
	{
		name: "int32",
		obj:  NewMessage("/i", int32(-2)),
		raw:  []byte("/i" + nulls(2) + ",i" + nulls(2) + "\xff\xff\xff\xfe"),
	},
	{
		name: "mixed",
		obj:  NewMessage("/x", int64(1), float64(0.5), true, nil, []byte{1, 2, 3}),
		raw: []byte("/x" + nulls(2) + ",hdTNb" + nulls(2) +
			nulls(7) + "\x01" +
			"\x3f\xe0" + nulls(6) +
			nulls(3) + "\x03" + "\x01\x02\x03" + nulls(1)),
	},
	{
		name: "timetag_false",
		obj:  NewMessage("/t", NewImmediateTimetag(), false),
		raw:  []byte("/t" + nulls(2) + ",tF" + nulls(1) + immediateTag),
	},
}

var bundleTestCases = []testCase{
	{
		name: "empty",
		obj:  NewBundle(),
		raw:  []byte("#bundle" + nulls(1) + immediateTag),
	},
	{
		name: "one_message",
		obj:  NewBundle(NewMessage("/note", float32(60), float32(100))),
		raw:  []byte("#bundle" + nulls(1) + immediateTag + nulls(3) + "\x14" + noteRaw),
	},
	{
		name: "nested",
		obj:  NewBundle(NewBundle()),
		raw:  []byte("#bundle" + nulls(1) + immediateTag + nulls(3) + "\x10" + "#bundle" + nulls(1) + immediateTag),
	},
}

var invalidTestCases = []testCase{
	{name: "empty", raw: []byte{}, wantErr: true},
	{name: "unaligned", raw: []byte("/a" + nulls(1)), wantErr: true},
	{name: "no_slash", raw: []byte("abc" + nulls(1)), wantErr: true},
	{name: "no_nul", raw: []byte("/abc"), wantErr: true},
	{name: "typetags_without_comma", raw: []byte("/a" + nulls(2) + "ff" + nulls(2)), wantErr: true},
	{name: "unknown_typetag", raw: []byte("/a" + nulls(2) + ",x" + nulls(2)), wantErr: true},
	{name: "truncated_float", raw: []byte("/a" + nulls(2) + ",f" + nulls(2)), wantErr: true},
	{name: "truncated_second_float", raw: []byte("/note" + nulls(3) + ",ff" + nulls(1) + "\x42\x70\x00\x00"), wantErr: true},
	{name: "truncated_string", raw: []byte("/a" + nulls(2) + ",s" + nulls(2) + "abcd"), wantErr: true},
	{name: "negative_blob_length", raw: []byte("/a" + nulls(2) + ",b" + nulls(2) + "\xff\xff\xff\xff"), wantErr: true},
	{name: "oversized_blob_length", raw: []byte("/a" + nulls(2) + ",b" + nulls(2) + nulls(3) + "\x09" + "abcd"), wantErr: true},
	{name: "bundle_bad_tag", raw: []byte("#bundlX" + nulls(1) + immediateTag), wantErr: true},
	{name: "bundle_no_timetag", raw: []byte("#bundle" + nulls(1) + nulls(4)), wantErr: true},
	{name: "bundle_element_too_long", raw: []byte("#bundle" + nulls(1) + immediateTag + nulls(3) + "\x40" + noteRaw), wantErr: true},
	{name: "bundle_element_zero_length", raw: []byte("#bundle" + nulls(1) + immediateTag + nulls(4)), wantErr: true},
	{name: "bundle_element_garbage", raw: []byte("#bundle" + nulls(1) + immediateTag + nulls(3) + "\x04" + "abcd"), wantErr: true},
	{name: "too_large", raw: append([]byte("/a"+nulls(2)), make([]byte, MaxPacketSize)...), wantErr: true},
}
