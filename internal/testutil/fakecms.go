package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/estatedesk/internal/cms"
)

// Envelope selects where FakeCMS puts the page counters of a list response.
type Envelope string

const (
	EnvelopeTop        Envelope = "top"
	EnvelopeMeta       Envelope = "meta"
	EnvelopePagination Envelope = "pagination"
)

// RecordedRequest is one request seen by FakeCMS.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Auth   string
	Body   []byte
}

// ImportFunc answers POST /{collection}/import.
type ImportFunc func(filename string, data []byte) (status int, body any)

type failure struct {
	method string
	path   string
	status int
	body   any
}

// FakeCMS is an in-memory CMS: list endpoints filter, sort and paginate
// the seeded records the way the real API does, and every request is
// recorded.
type FakeCMS struct {
	Server *httptest.Server

	mu       sync.Mutex
	records  map[string][]map[string]any
	requests []RecordedRequest
	failures []failure
	objects  map[string][]byte

	// Token is returned by /api/me and, when non-empty, required as the
	// bearer token on AuthRequired collections.
	Token string
	// AuthCollections lists the collections that reject anonymous calls.
	AuthCollections []string
	Envelope        Envelope
	Import          ImportFunc
	// FailUploads makes PUTs for these object names fail.
	FailUploads map[string]bool
}

// NewFakeCMS starts a fake CMS that is closed with the test.
func NewFakeCMS(t *testing.T) *FakeCMS {
	t.Helper()
	f := &FakeCMS{
		records:         map[string][]map[string]any{},
		objects:         map[string][]byte{},
		AuthCollections: []string{"customers", "sub-developments", "properties"},
		Envelope:        EnvelopeTop,
		FailUploads:     map[string]bool{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the server's base URL.
func (f *FakeCMS) URL() string { return f.Server.URL }

// Seed appends records to a collection. Records are stored as their JSON
// object form.
func (f *FakeCMS) Seed(collection string, records ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range records {
		b, err := json.Marshal(r)
		if err != nil {
			panic(err)
		}
		var m map[string]any
		if err := json.Unmarshal(b, &m); err != nil {
			panic(err)
		}
		f.records[collection] = append(f.records[collection], m)
	}
}

// Record returns the stored object with id, or nil.
func (f *FakeCMS) Record(collection, id string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records[collection] {
		if r["_id"] == id {
			return r
		}
	}
	return nil
}

// Count returns the number of records in a collection.
func (f *FakeCMS) Count(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records[collection])
}

// Object returns an uploaded object by key.
func (f *FakeCMS) Object(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[key]
	return b, ok
}

// FailNext makes the next request matching method and path answer status
// with body.
func (f *FakeCMS) FailNext(method, path string, status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, failure{method: method, path: path, status: status, body: body})
}

// Requests returns the recorded requests, optionally only those for
// method and path.
func (f *FakeCMS) Requests(method, path string) []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []RecordedRequest
	for _, r := range f.requests {
		if (method == "" || r.Method == method) && (path == "" || r.Path == path) {
			out = append(out, r)
		}
	}
	return out
}

func (f *FakeCMS) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
	})
	for i, fl := range f.failures {
		if fl.method == r.Method && fl.path == r.URL.Path {
			f.failures = slices.Delete(f.failures, i, i+1)
			f.mu.Unlock()
			writeJSON(w, fl.status, fl.body)
			return
		}
	}
	f.mu.Unlock()

	segs := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.URL.Path == "/api/me":
		f.serveSession(w)
	case segs[0] == "aws":
		f.serveSign(w, r, segs)
	case segs[0] == "bucket" && len(segs) == 2:
		f.serveObject(w, r, segs[1], body)
	default:
		f.serveCollection(w, r, segs, body)
	}
}

func (f *FakeCMS) serveSession(w http.ResponseWriter) {
	if f.Token == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": f.Token})
}

func (f *FakeCMS) serveSign(w http.ResponseWriter, r *http.Request, segs []string) {
	switch {
	case r.Method == http.MethodGet && len(segs) == 2 && segs[1] == "signed-url":
		name := r.URL.Query().Get("fileName")
		key := uuid.NewString()[:8] + "-" + name
		writeJSON(w, http.StatusOK, map[string]any{"msg": map[string]string{
			"url": f.Server.URL + "/bucket/" + url.PathEscape(key) + "?X-Signature=fake",
			"key": key,
		}})
	case r.Method == http.MethodDelete && len(segs) == 2:
		f.mu.Lock()
		delete(f.objects, segs[1])
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		http.NotFound(w, r)
	}
}

func (f *FakeCMS) serveObject(w http.ResponseWriter, r *http.Request, key string, body []byte) {
	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for name := range f.FailUploads {
		if strings.HasSuffix(key, "-"+name) {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
	f.objects[key] = body
	w.WriteHeader(http.StatusOK)
}

func (f *FakeCMS) authorized(collection string, r *http.Request) bool {
	if f.Token == "" || !slices.Contains(f.AuthCollections, collection) {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+f.Token
}

func (f *FakeCMS) serveCollection(w http.ResponseWriter, r *http.Request, segs []string, body []byte) {
	collection := segs[0]
	if !f.authorized(collection, r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return
	}

	switch {
	case len(segs) == 1 && r.Method == http.MethodGet:
		f.list(w, collection, r.URL.Query())
	case len(segs) == 1 && r.Method == http.MethodPost:
		f.create(w, collection, body)
	case len(segs) == 2 && segs[1] == "import" && r.Method == http.MethodPost:
		f.importFile(w, r, body)
	case len(segs) == 2:
		f.item(w, r, collection, segs[1], body)
	default:
		http.NotFound(w, r)
	}
}

func (f *FakeCMS) list(w http.ResponseWriter, collection string, q url.Values) {
	f.mu.Lock()
	var matched []map[string]any
	for _, rec := range f.records[collection] {
		if matches(rec, q) {
			matched = append(matched, rec)
		}
	}
	f.mu.Unlock()

	sortBy := q.Get("sortBy")
	if sortBy == "" {
		sortBy = "createdAt"
	}
	desc := q.Get("sortOrder") != "asc"
	slices.SortStableFunc(matched, func(a, b map[string]any) int {
		c := compareValues(a[sortBy], b[sortBy])
		if desc {
			return -c
		}
		return c
	})

	page, _ := strconv.Atoi(q.Get("page"))
	page = max(page, 1)
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = 10
	}
	lo := min((page-1)*limit, len(matched))
	hi := min(lo+limit, len(matched))
	data := matched[lo:hi]
	if data == nil {
		data = []map[string]any{}
	}

	meta := map[string]any{
		"total":      len(matched),
		"page":       page,
		"limit":      limit,
		"totalPages": int(math.Ceil(float64(len(matched)) / float64(limit))),
	}
	resp := map[string]any{"data": data}
	switch f.Envelope {
	case EnvelopeMeta:
		resp["meta"] = meta
	case EnvelopePagination:
		resp["pagination"] = meta
	default:
		for k, v := range meta {
			resp[k] = v
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (f *FakeCMS) create(w http.ResponseWriter, collection string, body []byte) {
	var rec map[string]any
	if err := json.Unmarshal(body, &rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid JSON"})
		return
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	rec["_id"] = uuid.NewString()
	rec["createdAt"] = now
	rec["updatedAt"] = now

	f.mu.Lock()
	f.records[collection] = append(f.records[collection], rec)
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]any{"data": rec})
}

func (f *FakeCMS) item(w http.ResponseWriter, r *http.Request, collection, id string, body []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := slices.IndexFunc(f.records[collection], func(m map[string]any) bool { return m["_id"] == id })
	if idx < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Record not found"})
		return
	}
	rec := f.records[collection][idx]

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, rec)
	case http.MethodPatch:
		var patch map[string]any
		if err := json.Unmarshal(body, &patch); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid JSON"})
			return
		}
		for k, v := range patch {
			rec[k] = v
		}
		rec["updatedAt"] = time.Now().UTC().Format(time.RFC3339Nano)
		writeJSON(w, http.StatusOK, map[string]any{"data": rec})
	case http.MethodDelete:
		f.records[collection] = slices.Delete(f.records[collection], idx, idx+1)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *FakeCMS) importFile(w http.ResponseWriter, r *http.Request, body []byte) {
	r.Body = io.NopCloser(strings.NewReader(string(body)))
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "No file uploaded"})
		return
	}
	defer file.Close()
	data, _ := io.ReadAll(file)

	if f.Import != nil {
		status, resp := f.Import(header.Filename, data)
		writeJSON(w, status, resp)
		return
	}
	lines := 0
	for _, l := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if strings.TrimSpace(l) != "" {
			lines++
		}
	}
	rows := max(lines-1, 0)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":                 true,
		"insertedEntries":         rows,
		"skippedDuplicateEntires": 0,
		"totalEntries":            rows,
	})
}

// matches applies the list query filters to one record: exact or
// any-of matches on plain keys, <key>Min/<key>Max on numbers, and
// startDate/endDate or <key>Start/<key>End on timestamps.
func matches(rec map[string]any, q url.Values) bool {
	for key, values := range q {
		switch key {
		case "page", "limit", "sortBy", "sortOrder":
			continue
		case "startDate":
			if !timeCmp(rec["createdAt"], values[0], func(v, b time.Time) bool { return !v.Before(b) }) {
				return false
			}
			continue
		case "endDate":
			if !timeCmp(rec["createdAt"], values[0], func(v, b time.Time) bool { return !v.After(b) }) {
				return false
			}
			continue
		}
		if field, ok := rec[key]; ok || !hasRangeSuffix(key) {
			if !anyOf(field, values) {
				return false
			}
			continue
		}
		if !rangeMatch(rec, key, values[0]) {
			return false
		}
	}
	return true
}

func hasRangeSuffix(key string) bool {
	for _, s := range []string{"Min", "Max", "Start", "End"} {
		if strings.HasSuffix(key, s) && len(key) > len(s) {
			return true
		}
	}
	return false
}

func rangeMatch(rec map[string]any, key, bound string) bool {
	switch {
	case strings.HasSuffix(key, "Min"), strings.HasSuffix(key, "Max"):
		base := key[:len(key)-3]
		v, ok := rec[base].(float64)
		b, err := strconv.ParseFloat(bound, 64)
		if !ok || err != nil {
			return false
		}
		if strings.HasSuffix(key, "Min") {
			return v >= b
		}
		return v <= b
	case strings.HasSuffix(key, "Start"):
		return timeCmp(rec[strings.TrimSuffix(key, "Start")], bound, func(v, b time.Time) bool { return !v.Before(b) })
	default:
		return timeCmp(rec[strings.TrimSuffix(key, "End")], bound, func(v, b time.Time) bool { return !v.After(b) })
	}
}

func timeCmp(field any, bound string, ok func(v, b time.Time) bool) bool {
	s, _ := field.(string)
	v, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return false
	}
	b, err := time.Parse(time.RFC3339Nano, bound)
	if err != nil {
		return false
	}
	return ok(v, b)
}

// anyOf reports whether field equals one of values (case-insensitive), or
// for array fields contains one of them. A single value on a string field
// is a substring search.
func anyOf(field any, values []string) bool {
	switch v := field.(type) {
	case string:
		if len(values) == 1 {
			return strings.Contains(strings.ToLower(v), strings.ToLower(values[0]))
		}
		return slices.ContainsFunc(values, func(s string) bool { return strings.EqualFold(s, v) })
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && slices.ContainsFunc(values, func(want string) bool { return strings.EqualFold(want, s) }) {
				return true
			}
		}
		return false
	case float64:
		return slices.Contains(values, strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		return slices.Contains(values, strconv.FormatBool(v))
	}
	return false
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case string:
		bv, _ := b.(string)
		return strings.Compare(strings.ToLower(av), strings.ToLower(bv))
	}
	if a == nil && b != nil {
		return -1
	}
	if a != nil && b == nil {
		return 1
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// Client returns a CMS client for the fake, authenticated with Token.
func (f *FakeCMS) Client() *cms.Client {
	return cms.NewClient(cms.Config{BaseURL: f.Server.URL, Timeout: 5 * time.Second}, cms.StaticToken(f.Token), nil)
}
