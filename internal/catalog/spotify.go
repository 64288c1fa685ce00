package catalog

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultAuthURL = "https://accounts.spotify.com/api/token"
	defaultAPIURL  = "https://api.spotify.com/v1"
)

// SpotifyClient implements Client against the Spotify Web API using the
// client-credentials flow. The cached bearer token is refreshed on expiry.
type SpotifyClient struct {
	clientID     string
	clientSecret string
	authURL      string
	apiURL       string
	httpClient   *http.Client

	mu          sync.RWMutex
	accessToken string
	tokenExpiry time.Time
}

// NewSpotifyClient creates a Spotify catalog client. Credentials are
// supplied once at startup.
func NewSpotifyClient(clientID, clientSecret string) *SpotifyClient {
	return &SpotifyClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		authURL:      defaultAuthURL,
		apiURL:       defaultAPIURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Spotify wire types.

type spotifyError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type spotifyEnvelope struct {
	Error *spotifyError `json:"error,omitempty"`
}

type spotifySearchResponse struct {
	Artists *spotifyArtistsPage `json:"artists,omitempty"`
}

type spotifyArtistsPage struct {
	Items []spotifyArtist `json:"items"`
}

type spotifyArtist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	Images     []Image  `json:"images"`
}

type spotifyAlbum struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Artists     []spotifySimpleArtist `json:"artists"`
	ReleaseDate string                `json:"release_date"`
	TotalTracks int                   `json:"total_tracks"`
	Images      []Image               `json:"images"`
}

type spotifyTrack struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Artists     []spotifySimpleArtist `json:"artists"`
	Album       *spotifySimpleAlbum   `json:"album,omitempty"`
	DurationMS  int                   `json:"duration_ms"`
	TrackNumber int                   `json:"track_number"`
	PreviewURL  string                `json:"preview_url,omitempty"`
}

type spotifySimpleArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifySimpleAlbum struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyAlbumsPage struct {
	Items []spotifyAlbum `json:"items"`
}

type spotifyTracksPage struct {
	Items []spotifyTrack `json:"items"`
}

type spotifyTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// authenticate obtains or refreshes the access token.
func (c *SpotifyClient) authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().Before(c.tokenExpiry) {
		return nil
	}

	authString := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))

	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("create auth request: %w", err)
	}

	req.Header.Set("Authorization", "Basic "+authString)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("catalog auth failed: %s - %s", resp.Status, string(body))
	}

	var tokenResp spotifyTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return fmt.Errorf("decode auth response: %w", err)
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	return nil
}

// doRequest performs an authenticated GET and decodes the response. The
// catalog reports lookup failures as an error object in the body; a present
// error object is treated as a resolution failure regardless of HTTP status,
// and its message is preserved verbatim.
func (c *SpotifyClient) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	if err := c.authenticate(ctx); err != nil {
		return err
	}

	c.mu.RLock()
	token := c.accessToken
	c.mu.RUnlock()

	apiURL := c.apiURL + "/" + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var envelope spotifyEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		return &NotFoundError{Message: envelope.Error.Message}
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog api error: %s - %s", resp.Status, string(body))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// SearchArtists searches the catalog for artists matching the query.
func (c *SpotifyClient) SearchArtists(ctx context.Context, query string, limit int) ([]Artist, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "artist")
	params.Set("limit", fmt.Sprintf("%d", limit))

	var result spotifySearchResponse
	if err := c.doRequest(ctx, "search", params, &result); err != nil {
		return nil, err
	}

	if result.Artists == nil {
		return []Artist{}, nil
	}

	artists := make([]Artist, 0, len(result.Artists.Items))
	for _, sa := range result.Artists.Items {
		artists = append(artists, convertArtist(sa))
	}

	return artists, nil
}

// GetArtist retrieves one artist by id.
func (c *SpotifyClient) GetArtist(ctx context.Context, artistID string) (*Artist, error) {
	var sa spotifyArtist
	if err := c.doRequest(ctx, "artists/"+artistID, nil, &sa); err != nil {
		return nil, err
	}

	artist := convertArtist(sa)
	return &artist, nil
}

// GetArtistAlbums retrieves the albums released by an artist.
func (c *SpotifyClient) GetArtistAlbums(ctx context.Context, artistID string) ([]Album, error) {
	params := url.Values{}
	params.Set("include_groups", "album,single")
	params.Set("limit", "50")

	var page spotifyAlbumsPage
	if err := c.doRequest(ctx, "artists/"+artistID+"/albums", params, &page); err != nil {
		return nil, err
	}

	albums := make([]Album, 0, len(page.Items))
	for _, sa := range page.Items {
		albums = append(albums, convertAlbum(sa))
	}

	return albums, nil
}

// GetAlbum retrieves one album by id.
func (c *SpotifyClient) GetAlbum(ctx context.Context, albumID string) (*Album, error) {
	var sa spotifyAlbum
	if err := c.doRequest(ctx, "albums/"+albumID, nil, &sa); err != nil {
		return nil, err
	}

	album := convertAlbum(sa)
	return &album, nil
}

// GetAlbumTracks retrieves the track listing of an album.
func (c *SpotifyClient) GetAlbumTracks(ctx context.Context, albumID string) ([]Track, error) {
	params := url.Values{}
	params.Set("limit", "50")

	var page spotifyTracksPage
	if err := c.doRequest(ctx, "albums/"+albumID+"/tracks", params, &page); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(page.Items))
	for _, st := range page.Items {
		tracks = append(tracks, convertTrack(st))
	}

	return tracks, nil
}

// GetTrack retrieves one track by id.
func (c *SpotifyClient) GetTrack(ctx context.Context, trackID string) (*Track, error) {
	var st spotifyTrack
	if err := c.doRequest(ctx, "tracks/"+trackID, nil, &st); err != nil {
		return nil, err
	}

	track := convertTrack(st)
	return &track, nil
}

// Converters from wire types to neutral catalog types.

func convertArtist(sa spotifyArtist) Artist {
	return Artist{
		ID:         sa.ID,
		Name:       sa.Name,
		Images:     sa.Images,
		Genres:     sa.Genres,
		Popularity: sa.Popularity,
	}
}

func convertAlbum(sa spotifyAlbum) Album {
	artistName := ""
	artistID := ""
	if len(sa.Artists) > 0 {
		artistName = sa.Artists[0].Name
		artistID = sa.Artists[0].ID
	}

	return Album{
		ID:          sa.ID,
		Name:        sa.Name,
		Artist:      artistName,
		ArtistID:    artistID,
		ReleaseDate: sa.ReleaseDate,
		TotalTracks: sa.TotalTracks,
		Images:      sa.Images,
	}
}

func convertTrack(st spotifyTrack) Track {
	artistName := ""
	artistID := ""
	if len(st.Artists) > 0 {
		artistName = st.Artists[0].Name
		artistID = st.Artists[0].ID
	}

	albumName := ""
	albumID := ""
	if st.Album != nil {
		albumName = st.Album.Name
		albumID = st.Album.ID
	}

	return Track{
		ID:          st.ID,
		Name:        st.Name,
		Artist:      artistName,
		ArtistID:    artistID,
		Album:       albumName,
		AlbumID:     albumID,
		DurationMS:  st.DurationMS,
		TrackNumber: st.TrackNumber,
		PreviewURL:  st.PreviewURL,
	}
}
