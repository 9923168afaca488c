package projects

import (
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ShareURL is the playground page address that opens the project of hash.
func ShareURL(base string, hash string) string {
	return strings.TrimSuffix(base, "/") + "/#" + hash
}

// ShareQR encodes url as a square PNG QR code. Long links may not fit.
func ShareQR(url string, size int) ([]byte, error) {
	return qrcode.Encode(url, qrcode.Low, size)
}

// ShareQRText renders url as a QR code made of terminal block characters.
func ShareQRText(url string) (string, error) {
	code, err := qrcode.New(url, qrcode.Low)
	if err != nil {
		return "", err
	}
	return code.ToSmallString(false), nil
}
