package share

import qrcode "github.com/skip2/go-qrcode"

// QRPNG renders a viewer URL as a PNG QR code, size pixels square.
// Printed invitations carry the code so guests reach the viewer without
// typing the link.
func QRPNG(viewerURL string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(viewerURL, qrcode.Medium, size)
}
