package gui

import "fyne.io/fyne/v2"

// Dashed selection frame with a text glyph inside.
const iconSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 16 16" width="16" height="16">
  <rect x="1.5" y="2.5" width="13" height="11" fill="none" stroke="#0078d4" stroke-width="1.5" stroke-dasharray="2,1"/>
  <line x1="5" y1="5.5" x2="11" y2="5.5" stroke="#333333" stroke-width="1.5" stroke-linecap="round"/>
  <line x1="8" y1="5.5" x2="8" y2="11" stroke="#333333" stroke-width="1.5" stroke-linecap="round"/>
</svg>`

var appIcon = fyne.NewStaticResource("screen-ocr.svg", []byte(iconSVG))
