// Package youtube resolves YouTube URLs and fetches audio tracks.
//
// The fetch path is split across files by responsibility:
//
//	videoid.go : URL → video ID resolution, canonical watch URLs
//	oembed.go  : public-accessibility gate via the oEmbed endpoint
//	player.go  : Innertube /player probe for age-restriction metadata
//	classify.go: downloader error text → error kind mapping table
//	fetch.go   : audio format selection, download with retry, artifact discovery
package youtube
