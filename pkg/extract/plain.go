package extract

import "os"

// plainExtractor reads a text/plain file verbatim, grounded on the original
// implementation's read_txt: no transformation beyond decoding the file as
// UTF-8 text.
type plainExtractor struct{}

func (plainExtractor) Extract(path string) (string, map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}

	return string(data), nil, nil
}
