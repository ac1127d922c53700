// Package services implements [Client], an HTTP client for a running tunes server.
//
// # Request Layer
//
// Every catalog operation is exposed under /spotify by the server. The client maps each
// script op to its endpoint and sends the op fields as form parameters:
//
//	add-user                POST /spotify/add-user                name, mobile
//	add-artist              POST /spotify/add-artist              name
//	add-album               POST /spotify/add-album               title, artistName
//	add-song                POST /spotify/add-song                title, albumName, length
//	add-playlist-on-length  POST /spotify/add-playlist-on-length  mobile, title, length
//	add-playlist-on-name    POST /spotify/add-playlist-on-name    mobile, title, songTitles
//	find-playlist           PUT  /spotify/find-playlist           mobile, playlistTitle
//	like-song               PUT  /spotify/like-song               mobile, songTitle
//	popular-artist          GET  /spotify/popular-artist
//	popular-song            GET  /spotify/popular-song
//
// # Responses
//
// Domain outcomes come back as 200 with a "Success" or "Failure: <reason>" body and
// malformed requests as 400 with the same prefix. Both are returned as a [Response].
// Any other status is an error: [shared.ErrRateLimited] for 429 and [shared.ErrAPIRequest]
// otherwise.
package services
