package mymemory

import (
	"encoding/json"
	"strconv"
	"strings"
)

type response struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus  json.RawMessage `json:"responseStatus"`
	ResponseDetails string          `json:"responseDetails"`
}

// status accepts both 200 and "200"; the service sends either.
func (r response) status() int {
	raw := strings.Trim(string(r.ResponseStatus), `" `)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
