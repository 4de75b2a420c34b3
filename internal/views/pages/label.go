package pages

import "fmt"

// labelPageStyle sizes the printed page and the label box in millimetres.
func labelPageStyle(widthMM, heightMM int) string {
	return fmt.Sprintf("<style>@page { size: %dmm %dmm; margin: 0; } .label { width: %dmm; height: %dmm; }</style>",
		widthMM, heightMM, widthMM, heightMM)
}
