// Package courtlistener is a client for the CourtListener docket entries API.
//
// Pages are addressed by an opaque cursor. The API hands back the next cursor
// as an absolute URL, which FetchPage requests unchanged:
//
//	client := courtlistener.NewClient(courtlistener.Options{APIToken: token}, log)
//	page, err := client.FetchPage(ctx, nil)
//	if err != nil {
//		return err
//	}
//	page, err = client.FetchPage(ctx, page.Next)
package courtlistener
