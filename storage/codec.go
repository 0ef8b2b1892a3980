package storage

import (
	"slices"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/tmatch/core"
)

// MUS serializers for the persisted domain types. Field order is the wire
// order; appending fields is the only compatible change.
var (
	TranslationRecordMUS = translationRecordSer{}
	MemoryInfoMUS        = memoryInfoSer{}
)

type translationRecordSer struct{}

func (translationRecordSer) Size(r core.TranslationRecord) int {
	var s sizer
	s.uint64(uint64(r.Id))
	s.str(r.Source)
	s.str(r.Translation)
	s.str(r.SourceLanguage.String())
	s.str(r.TargetLanguage.String())
	s.str(r.Creator)
	s.str(r.Changer)
	s.time(r.CreatedAt)
	s.time(r.ChangedAt)
	s.props(r.Properties)
	s.entryKey(r.Alternative)
	return s.n
}

func (translationRecordSer) Marshal(r core.TranslationRecord, bs []byte) int {
	e := encoder{bs: bs}
	e.uint64(uint64(r.Id))
	e.str(r.Source)
	e.str(r.Translation)
	e.str(r.SourceLanguage.String())
	e.str(r.TargetLanguage.String())
	e.str(r.Creator)
	e.str(r.Changer)
	e.time(r.CreatedAt)
	e.time(r.ChangedAt)
	e.props(r.Properties)
	e.entryKey(r.Alternative)
	return e.n
}

func (translationRecordSer) Unmarshal(bs []byte) (core.TranslationRecord, int, error) {
	d := decoder{bs: bs}
	r := core.TranslationRecord{
		Id:             core.ID(d.uint64()),
		Source:         d.str(),
		Translation:    d.str(),
		SourceLanguage: core.Language(d.str()),
		TargetLanguage: core.Language(d.str()),
		Creator:        d.str(),
		Changer:        d.str(),
		CreatedAt:      d.time(),
		ChangedAt:      d.time(),
		Properties:     d.props(),
		Alternative:    d.entryKey(),
	}
	if d.err != nil {
		return core.TranslationRecord{}, d.n, d.err
	}
	return r, d.n, nil
}

type memoryInfoSer struct{}

func (memoryInfoSer) Size(m core.MemoryInfo) int {
	var s sizer
	s.str(m.Id)
	s.int(int(m.Kind))
	s.str(m.SourceLanguage.String())
	s.str(m.TargetLanguage.String())
	s.str(m.Path)
	s.int(m.Position)
	s.int(m.RecordCount)
	s.time(m.UpdatedAt)
	return s.n
}

func (memoryInfoSer) Marshal(m core.MemoryInfo, bs []byte) int {
	e := encoder{bs: bs}
	e.str(m.Id)
	e.int(int(m.Kind))
	e.str(m.SourceLanguage.String())
	e.str(m.TargetLanguage.String())
	e.str(m.Path)
	e.int(m.Position)
	e.int(m.RecordCount)
	e.time(m.UpdatedAt)
	return e.n
}

func (memoryInfoSer) Unmarshal(bs []byte) (core.MemoryInfo, int, error) {
	d := decoder{bs: bs}
	m := core.MemoryInfo{
		Id:             d.str(),
		Kind:           core.OriginKind(d.int()),
		SourceLanguage: core.Language(d.str()),
		TargetLanguage: core.Language(d.str()),
		Path:           d.str(),
		Position:       d.int(),
		RecordCount:    d.int(),
		UpdatedAt:      d.time(),
	}
	if d.err != nil {
		return core.MemoryInfo{}, d.n, d.err
	}
	return m, d.n, nil
}

// Times are stored as Unix microseconds; 0 encodes the zero time.
func timeToMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func microToTime(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.UnixMicro(v).UTC()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

type sizer struct{ n int }

func (s *sizer) str(v string)    { s.n += ord.String.Size(v) }
func (s *sizer) int(v int)       { s.n += varint.Int.Size(v) }
func (s *sizer) uint64(v uint64) { s.n += varint.Uint64.Size(v) }
func (s *sizer) time(t time.Time) {
	s.n += varint.Int64.Size(timeToMicro(t))
}

func (s *sizer) props(m map[string]string) {
	s.int(len(m))
	for _, k := range sortedKeys(m) {
		s.str(k)
		s.str(m[k])
	}
}

func (s *sizer) entryKey(k *core.EntryKey) {
	s.n += ord.Bool.Size(k != nil)
	if k == nil {
		return
	}
	for _, v := range entryKeyFields(k) {
		s.str(v)
	}
}

type encoder struct {
	bs []byte
	n  int
}

func (e *encoder) str(v string)    { e.n += ord.String.Marshal(v, e.bs[e.n:]) }
func (e *encoder) int(v int)       { e.n += varint.Int.Marshal(v, e.bs[e.n:]) }
func (e *encoder) uint64(v uint64) { e.n += varint.Uint64.Marshal(v, e.bs[e.n:]) }
func (e *encoder) time(t time.Time) {
	e.n += varint.Int64.Marshal(timeToMicro(t), e.bs[e.n:])
}

func (e *encoder) props(m map[string]string) {
	e.int(len(m))
	for _, k := range sortedKeys(m) {
		e.str(k)
		e.str(m[k])
	}
}

func (e *encoder) entryKey(k *core.EntryKey) {
	e.n += ord.Bool.Marshal(k != nil, e.bs[e.n:])
	if k == nil {
		return
	}
	for _, v := range entryKeyFields(k) {
		e.str(v)
	}
}

func entryKeyFields(k *core.EntryKey) []string {
	return []string{k.File, k.SourceText, k.ID, k.Path, k.Prev, k.Next}
}

// decoder reads fields sequentially and keeps the first error; later reads
// become no-ops returning zero values.
type decoder struct {
	bs  []byte
	n   int
	err error
}

func (d *decoder) str() string {
	if d.err != nil {
		return ""
	}
	v, n, err := ord.String.Unmarshal(d.bs[d.n:])
	d.n += n
	d.err = err
	return v
}

func (d *decoder) int() int {
	if d.err != nil {
		return 0
	}
	v, n, err := varint.Int.Unmarshal(d.bs[d.n:])
	d.n += n
	d.err = err
	return v
}

func (d *decoder) uint64() uint64 {
	if d.err != nil {
		return 0
	}
	v, n, err := varint.Uint64.Unmarshal(d.bs[d.n:])
	d.n += n
	d.err = err
	return v
}

func (d *decoder) time() time.Time {
	if d.err != nil {
		return time.Time{}
	}
	v, n, err := varint.Int64.Unmarshal(d.bs[d.n:])
	d.n += n
	d.err = err
	return microToTime(v)
}

func (d *decoder) bool() bool {
	if d.err != nil {
		return false
	}
	v, n, err := ord.Bool.Unmarshal(d.bs[d.n:])
	d.n += n
	d.err = err
	return v
}

func (d *decoder) props() map[string]string {
	count := d.int()
	if d.err != nil || count <= 0 {
		return nil
	}
	if count > len(d.bs)-d.n {
		d.err = ErrTruncatedData
		return nil
	}
	m := make(map[string]string, count)
	for range count {
		k := d.str()
		v := d.str()
		if d.err != nil {
			return nil
		}
		m[k] = v
	}
	return m
}

func (d *decoder) entryKey() *core.EntryKey {
	if !d.bool() {
		return nil
	}
	k := &core.EntryKey{
		File:       d.str(),
		SourceText: d.str(),
		ID:         d.str(),
		Path:       d.str(),
		Prev:       d.str(),
		Next:       d.str(),
	}
	if d.err != nil {
		return nil
	}
	return k
}
