package export

import "encoding/base64"

// EncodeBase64URI encodes a workbook payload for the platform's file upload
// API, which accepts file content inline as "base64://<data>".
func EncodeBase64URI(payload []byte) string {
	return "base64://" + base64.StdEncoding.EncodeToString(payload)
}
