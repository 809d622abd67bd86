package scene

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/spacemark/pkg/errors"
)

// Decode reads a YAML or JSON document from r.
//
// Decode rejects unknown fields, unknown layer types, empty or duplicate
// layer IDs and selection entries that do not name a layer. Decode does not
// close r.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeInvalidScene, "empty document")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode scene")
	}
	if err := doc.check(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads a document from the file at path.
func Load(path string) (*Document, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene file not found: %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a document held in memory.
func Parse(data []byte) (*Document, error) {
	return Decode(bytes.NewReader(data))
}

func (d *Document) check() error {
	var err error
	d.Walk(func(l *Layer, _ int) bool {
		if err != nil {
			return false
		}
		switch {
		case l == nil:
			err = errors.New(errors.ErrCodeInvalidScene, "null layer")
		case l.ID == "":
			err = errors.New(errors.ErrCodeInvalidScene, "layer without id")
		case !l.Type.Known():
			err = errors.New(errors.ErrCodeInvalidScene, "layer %q: unknown type %q", l.ID, l.Type)
		case !l.Frame.IsFinite():
			err = errors.New(errors.ErrCodeInvalidScene, "layer %q: non-finite frame %v", l.ID, l.Frame)
		default:
			for i, f := range l.Fragments {
				if !f.IsFinite() {
					err = errors.New(errors.ErrCodeInvalidScene, "layer %q: non-finite fragment %d %v", l.ID, i, f)
					break
				}
			}
		}
		return err == nil
	})
	if err != nil {
		return err
	}

	d.index = nil
	ix := d.Index()
	if err := ix.check(); err != nil {
		return err
	}
	for _, id := range d.Selection {
		if _, ok := ix.Find(id); !ok {
			return errors.New(errors.ErrCodeInvalidScene, "selection references unknown layer %q", id)
		}
	}
	return nil
}

// Hash returns a stable content hash of d, suitable for cache keys.
func Hash(d *Document) (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidScene, err, "hash scene")
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
