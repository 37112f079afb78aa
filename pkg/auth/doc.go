// Package auth stores the CourtListener API token.
//
// A Manager tries the system keychain first, then an encrypted file in the
// user config directory, then the CL_API_TOKEN and DOCKETLABELER_API_TOKEN
// environment variables.
package auth
