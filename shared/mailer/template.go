package mailer

import (
	"bytes"
	"html/template"
)

// otpTemplateData carries the values substituted into the OTP email body.
type otpTemplateData struct {
	Code string
}

const otpTemplateHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Verification Code</title>
</head>
<body style="font-family: sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1 style="font-size: 22px;">Your verification code</h1>
    <p>Use the code below to verify your account. It is valid for 60 seconds.</p>
    <p style="font-size: 36px; font-weight: bold; letter-spacing: 8px;">{{.Code}}</p>
    <p style="color: #999; font-size: 12px;">If you did not request this code, you can safely ignore this email.</p>
</body>
</html>
`

var otpTemplate = template.Must(template.New("otp").Parse(otpTemplateHTML))

// RenderOTPEmail renders the one-time code into the HTML email body.
func RenderOTPEmail(code string) (string, error) {
	var buf bytes.Buffer
	if err := otpTemplate.Execute(&buf, otpTemplateData{Code: code}); err != nil {
		return "", err
	}

	return buf.String(), nil
}
