package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/target/saarevents/internal/domain/auth"
)

// printJSON writes v as indented JSON, filtered through the --query expression when set.
func (r *runner) printJSON(w io.Writer, v any) error {
	if expr := strings.TrimSpace(r.query); expr != "" {
		filtered, err := applyQuery(expr, v)
		if err != nil {
			return err
		}
		v = filtered
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// applyQuery evaluates a JMESPath expression against the JSON form of v.
func applyQuery(expr string, v any) (any, error) {
	compiled, err := jmespath.Compile(expr)
	if err != nil {
		return nil, usageError("invalid --query: %v", err)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode output: %w", err)
	}
	out, err := compiled.Search(doc)
	if err != nil {
		return nil, fmt.Errorf("evaluate --query: %w", err)
	}
	return out, nil
}

// identityView is what the CLI shows for an identity. The credential is never printed.
type identityView struct {
	SignedIn bool              `json:"signedIn"`
	ID       int64             `json:"id,omitempty"`
	Username string            `json:"username,omitempty"`
	Email    string            `json:"email,omitempty"`
	Roles    []domainauth.Role `json:"roles,omitempty"`
	Partial  bool              `json:"partial,omitempty"`
}

func viewOf(id domainauth.Identity, present bool) identityView {
	if !present {
		return identityView{}
	}
	return identityView{
		SignedIn: true,
		ID:       id.ID,
		Username: id.Username,
		Email:    id.Email,
		Roles:    id.Roles,
		Partial:  id.IsPartial(),
	}
}
