package snippet

import (
	"io"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

type document struct {
	Snippets []Snippet `yaml:"snippets"`
}

// Export writes snippets as YAML. Code is written in plain text.
func Export(w io.Writer, snippets []Snippet) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Snippets: snippets}); err != nil {
		return errors.Wrap(err, "encode snippets")
	}
	return errors.Wrap(enc.Close(), "encode snippets")
}

// Import reads snippets written by Export. Missing IDs are generated and modes
// are validated.
func Import(r io.Reader) ([]Snippet, error) {
	var d document
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "decode snippets")
	}
	out := make([]Snippet, 0, len(d.Snippets))
	for i, s := range d.Snippets {
		mode, err := ParseMode(string(s.Mode))
		if err != nil {
			return nil, errors.Wrapf(err, "snippet %d", i)
		}
		n := New(s.Title, mode, s.Code)
		if s.ID != "" {
			n.ID = s.ID
		}
		n.AutoRun = s.AutoRun
		out = append(out, n)
	}
	return out, nil
}
