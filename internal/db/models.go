package db

type PageCache struct {
	Key       string
	Body      []byte
	CreatedAt int64
	Lifetime  int64
}

type ListedStory struct {
	Rank    int64
	StoryID int64
	Title   string
	Url     string
}

type Session struct {
	ID        int64
	Username  string
	ExpiresAt int64
}
