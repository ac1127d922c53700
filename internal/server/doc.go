// Package server is the HTTP request layer for the catalog store.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// Register middleware with [BasicRouter.Use] before adding routes.
//
// The [BasicRouter] implementation uses [http.ServeMux] for paths and dispatches on method itself,
// answering 405 with an Allow header for known paths.
//
// # Endpoints
//
// [CatalogHandler] maps each catalog operation onto a route under /spotify. Parameters come from the
// query string or a form body:
//
//	POST /spotify/add-user                 name, mobile
//	POST /spotify/add-artist               name
//	POST /spotify/add-album                title, artistName
//	POST /spotify/add-song                 title, albumName, length
//	POST /spotify/add-playlist-on-length   mobile, title, length
//	POST /spotify/add-playlist-on-name     mobile, title, songTitles (repeated or comma separated)
//	PUT  /spotify/find-playlist            mobile, playlistTitle
//	PUT  /spotify/like-song                mobile, songTitle
//	GET  /spotify/popular-artist
//	GET  /spotify/popular-song
//	GET  /spotify/stats
//
// Write endpoints answer "Success" or "Failure: <reason>" with status 200; missing or malformed
// parameters answer 400. The popularity endpoints return the bare name, empty when nothing is liked.
//
// # Middleware
//
// [Recover], [Logging] and [RateLimit] (a token bucket from golang.org/x/time/rate) are stacked by
// [NewCatalogRouter]. [Serve] runs the router until its context is cancelled.
package server
