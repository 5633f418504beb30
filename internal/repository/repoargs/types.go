package repoargs

type RepositoryName string

const (
	UserRepoName         RepositoryName = "user"
	CourseRepoName       RepositoryName = "course"
	TransactionRepoName  RepositoryName = "transaction"
	RefreshTokenRepoName RepositoryName = "refresh_token"
)
