package apiclient

// Article is a blog post as served by the API. Content is only set on
// detail responses.
type Article struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Cover       string   `json:"cover"`
	Content     string   `json:"content,omitempty"`
}

// ArticleInput is the body of article create and update calls. Slug is only
// sent on create.
type ArticleInput struct {
	Slug        string   `json:"slug,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Content     string   `json:"content"`
	Cover       *string  `json:"cover"`
}

// ArticleImage is an image stored next to an article.
type ArticleImage struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// UploadedImage is the response to an article image upload.
type UploadedImage struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Markdown string `json:"markdown"`
}

// PhotoSummary is an entry of the photo list.
type PhotoSummary struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	CoverImage  string `json:"cover_image"`
}

// PhotoImage is one image of a photo set.
type PhotoImage struct {
	ID      int64  `json:"id"`
	URL     string `json:"url"`
	IsCover bool   `json:"is_cover"`
	Order   int    `json:"order"`
}

// Photo is a photo set with its images.
type Photo struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Content     string       `json:"content"`
	Date        string       `json:"date"`
	Images      []PhotoImage `json:"images"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
}

// PhotoInput is the body of photo create and update calls.
type PhotoInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	Date        string  `json:"date"`
}

// GitHubUser is the profile part of the GitHub snapshot.
type GitHubUser struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	Blog        string `json:"blog"`
	HTMLURL     string `json:"html_url"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
}

// Repo is a public repository in the GitHub snapshot.
type Repo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	HTMLURL     string `json:"html_url"`
	Language    string `json:"language"`
	Stars       int    `json:"stargazers_count"`
	Forks       int    `json:"forks_count"`
	UpdatedAt   string `json:"updated_at"`
	CreatedAt   string `json:"created_at"`
	PushedAt    string `json:"pushed_at"`
	CommitCount int    `json:"commit_count"`
}

// GitHubData is the synced GitHub snapshot.
type GitHubData struct {
	User         GitHubUser `json:"user_info"`
	Repos        []Repo     `json:"repos"`
	TotalCommits int        `json:"total_commits"`
	LastSyncTime string     `json:"last_sync_time"`
}

// Nullable returns nil for an empty string so it is sent as JSON null.
func Nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
