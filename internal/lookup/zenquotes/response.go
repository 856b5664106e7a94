package zenquotes

type quote struct {
	Q string `json:"q"`
	A string `json:"a"`
	H string `json:"h"`
}
