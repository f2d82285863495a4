package obsidian

// Note is the JSON shape of a note returned by the API with the
// application/vnd.olrapi.note+json accept header ('NoteJson' in the
// OpenAPI spec).
type Note struct {
	Content     string                 `json:"content"`
	Frontmatter map[string]interface{} `json:"frontmatter"`
	Path        string                 `json:"path"`
	Stat        FileStat               `json:"stat"`
	Tags        []string               `json:"tags"`
}

// FileStat contains file system metadata. Times are Unix milliseconds.
type FileStat struct {
	Ctime float64 `json:"ctime"`
	Mtime float64 `json:"mtime"`
	Size  float64 `json:"size"`
}

// ErrorResponse is an error returned by the API. StatusCode carries the
// HTTP status of the response and is filled in by the client, not the
// wire payload, so error handling can dispatch on it instead of parsing
// messages.
type ErrorResponse struct {
	StatusCode int    `json:"-"`
	ErrorCode  int    `json:"errorCode"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *ErrorResponse) Error() string {
	return e.Message
}

type PatchOperation string

const (
	PatchAppend  PatchOperation = "append"
	PatchPrepend PatchOperation = "prepend"
	PatchReplace PatchOperation = "replace"
)

type TargetType string

const (
	TargetHeading     TargetType = "heading"
	TargetBlock       TargetType = "block"
	TargetFrontmatter TargetType = "frontmatter"
)
