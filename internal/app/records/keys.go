package records

// Key is the medium key a collection or slot is stored under.
type Key string

const (
	Members       Key = "ftc_members"
	Volunteers    Key = "ftc_volunteers"
	Organizations Key = "ftc_organizations"
	Businesses    Key = "ftc_businesses"
	Posts         Key = "ftc_posts"
	Responses     Key = "ftc_responses"
	Categories    Key = "ftc_custom_categories"
	Credentials   Key = "ftc_credentials"

	// CurrentUser holds the bare id of the session member (not JSON).
	CurrentUser Key = "ftc_current_user"
	// AuthState holds a JSON domain.AuthState snapshot.
	AuthState Key = "ftc_auth_state"
)

// Collection pairs a record collection with its name in exported snapshots.
type Collection struct {
	Name string
	Key  Key
}

// Collections lists every record collection in snapshot order.
var Collections = []Collection{
	{Name: "MEMBERS", Key: Members},
	{Name: "VOLUNTEERS", Key: Volunteers},
	{Name: "ORGANIZATIONS", Key: Organizations},
	{Name: "BUSINESSES", Key: Businesses},
	{Name: "POSTS", Key: Posts},
	{Name: "RESPONSES", Key: Responses},
	{Name: "CATEGORIES", Key: Categories},
	{Name: "CREDENTIALS", Key: Credentials},
}

// AllKeys lists every key the store owns, collections first.
func AllKeys() []Key {
	keys := make([]Key, 0, len(Collections)+2)
	for _, c := range Collections {
		keys = append(keys, c.Key)
	}
	return append(keys, CurrentUser, AuthState)
}
