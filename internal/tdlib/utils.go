package tdlib

import (
	"fmt"
	"strings"

	"github.com/zelenin/go-tdlib/client"
)

func GetUsername(usernames *client.Usernames) string {
	if usernames == nil || len(usernames.ActiveUsernames) == 0 {
		return ""
	}

	return usernames.ActiveUsernames[0]
}

func GetUserFullname(user *client.User) string {
	name := strings.TrimSpace(fmt.Sprintf("%s %s", user.FirstName, user.LastName))
	if un := GetUsername(user.Usernames); un != "" {
		name = fmt.Sprintf("%s (@%s)", name, un)
	}
	if name == "" {
		name = fmt.Sprintf("no_name %d", user.Id)
	}

	return name
}
