package platform

import (
	"context"
	"net/http"

	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/domain"
)

type profileEnvelope struct {
	Member struct {
		ID         string `json:"id"`
		ContactID  string `json:"contactId"`
		LoginEmail string `json:"loginEmail"`
		Profile    struct {
			Nickname string `json:"nickname"`
			Slug     string `json:"slug"`
		} `json:"profile"`
	} `json:"member"`
}

// MemberProfile resolves the authenticated member behind the access token.
func (c *Client) MemberProfile(ctx context.Context, accessToken string) (*domain.Profile, error) {
	var env profileEnvelope
	if err := c.do(ctx, "member profile", http.MethodGet, "/v1/members/my", accessToken, nil, &env); err != nil {
		return nil, err
	}
	return &domain.Profile{
		ID:        env.Member.ID,
		Email:     env.Member.LoginEmail,
		Nickname:  env.Member.Profile.Nickname,
		Slug:      env.Member.Profile.Slug,
		ContactID: env.Member.ContactID,
	}, nil
}

type contactEnvelope struct {
	Contact wireContact `json:"contact"`
}

type wireContact struct {
	ID   string `json:"id"`
	Info struct {
		Emails struct {
			Items []struct {
				Email string `json:"email"`
			} `json:"items"`
		} `json:"emails"`
		Phones struct {
			Items []struct {
				Phone string `json:"phone"`
			} `json:"items"`
		} `json:"phones"`
		Name struct {
			First string `json:"first"`
			Last  string `json:"last"`
		} `json:"name"`
	} `json:"info"`
}

func (w wireContact) toDomain() *domain.Contact {
	out := &domain.Contact{
		ID:        w.ID,
		FirstName: w.Info.Name.First,
		LastName:  w.Info.Name.Last,
	}
	if len(w.Info.Emails.Items) > 0 {
		out.Email = w.Info.Emails.Items[0].Email
	}
	if len(w.Info.Phones.Items) > 0 {
		out.Phone = w.Info.Phones.Items[0].Phone
	}
	return out
}

// ContactByID fetches the CRM contact linked to a member.
func (c *Client) ContactByID(ctx context.Context, accessToken, contactID string) (*domain.Contact, error) {
	var env contactEnvelope
	if err := c.do(ctx, "get contact", http.MethodGet, "/v1/contacts/"+contactID, accessToken, nil, &env); err != nil {
		return nil, err
	}
	return env.Contact.toDomain(), nil
}

// UpdateContact pushes name and phone changes to the CRM contact.
func (c *Client) UpdateContact(ctx context.Context, accessToken string, contact domain.Contact) (*domain.Contact, error) {
	body := struct {
		Info struct {
			Name struct {
				First string `json:"first,omitempty"`
				Last  string `json:"last,omitempty"`
			} `json:"name"`
			Phone string `json:"phone,omitempty"`
		} `json:"info"`
	}{}
	body.Info.Name.First = contact.FirstName
	body.Info.Name.Last = contact.LastName
	body.Info.Phone = contact.Phone

	var env contactEnvelope
	if err := c.do(ctx, "update contact", http.MethodPatch, "/v1/contacts/"+contact.ID, accessToken, body, &env); err != nil {
		return nil, err
	}
	return env.Contact.toDomain(), nil
}
