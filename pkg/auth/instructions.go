package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowTokenGuide writes instructions for obtaining a CourtListener API token
func ShowTokenGuide(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w, "COURTLISTENER API TOKEN")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Docket entries are only served to authenticated API users.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  1. Sign in at https://www.courtlistener.com")
	fmt.Fprintln(w, "  2. Open your profile and choose 'Developer Tools'")
	fmt.Fprintln(w, "  3. Copy the token shown under 'Your API Token'")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The token is sent as 'Authorization: Token <token>'. Anyone holding it")
	fmt.Fprintln(w, "can spend your API quota, so keep it out of shared config files.")
	fmt.Fprintln(w, "You can also export CL_API_TOKEN instead of storing it here.")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
}
