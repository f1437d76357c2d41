package notify

import (
	"context"
	"fmt"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// PushClient abstracts the LINE push endpoint so tests can inject a fake.
type PushClient interface {
	Push(ctx context.Context, to string, messages []linebot.SendingMessage) error
}

// NewLineBot builds the LINE Messaging API client from channel credentials.
func NewLineBot(channelSecret, channelToken string) (*linebot.Client, error) {
	bot, err := linebot.New(channelSecret, channelToken)
	if err != nil {
		return nil, fmt.Errorf("notify: failed to create LINE client: %w", err)
	}
	return bot, nil
}

// LinePushClient is the production PushClient backed by the LINE bot client.
type LinePushClient struct {
	bot *linebot.Client
}

func NewLinePushClient(bot *linebot.Client) *LinePushClient {
	return &LinePushClient{bot: bot}
}

func (c *LinePushClient) Push(ctx context.Context, to string, messages []linebot.SendingMessage) error {
	if _, err := c.bot.PushMessage(to, messages...).WithContext(ctx).Do(); err != nil {
		return fmt.Errorf("notify: LINE push to %s failed: %w", to, err)
	}
	return nil
}

// toLineMessage converts one flattened message part to its LINE payload.
func toLineMessage(m Message) linebot.SendingMessage {
	switch v := m.(type) {
	case Text:
		return linebot.NewTextMessage(string(v))
	case Card:
		return linebot.NewFlexMessage(v.Title, buildBubble(v))
	}
	return nil
}

func buildBubble(c Card) *linebot.BubbleContainer {
	contents := make([]linebot.FlexComponent, 0, len(c.Lines)+1)
	contents = append(contents, &linebot.TextComponent{
		Type:   linebot.FlexComponentTypeText,
		Text:   c.Title,
		Weight: linebot.FlexTextWeightTypeBold,
		Size:   linebot.FlexTextSizeTypeMd,
		Wrap:   true,
	})
	for _, line := range c.Lines {
		contents = append(contents, &linebot.TextComponent{
			Type:  linebot.FlexComponentTypeText,
			Text:  line,
			Size:  linebot.FlexTextSizeTypeSm,
			Color: "#555555",
			Wrap:  true,
		})
	}

	bubble := &linebot.BubbleContainer{
		Type: linebot.FlexContainerTypeBubble,
		Body: &linebot.BoxComponent{
			Type:     linebot.FlexComponentTypeBox,
			Layout:   linebot.FlexBoxLayoutTypeVertical,
			Spacing:  linebot.FlexComponentSpacingTypeSm,
			Contents: contents,
		},
	}

	if len(c.Buttons) > 0 {
		buttons := make([]linebot.FlexComponent, 0, len(c.Buttons))
		for _, b := range c.Buttons {
			style := linebot.FlexButtonStyleTypeSecondary
			color := ""
			switch b.Style {
			case "primary":
				style = linebot.FlexButtonStyleTypePrimary
				color = "#06C755"
			case "danger":
				style = linebot.FlexButtonStyleTypePrimary
				color = "#E74C3C"
			}
			buttons = append(buttons, &linebot.ButtonComponent{
				Type:   linebot.FlexComponentTypeButton,
				Style:  style,
				Color:  color,
				Height: linebot.FlexButtonHeightTypeSm,
				Action: linebot.NewURIAction(b.Label, b.URI),
			})
		}
		bubble.Footer = &linebot.BoxComponent{
			Type:     linebot.FlexComponentTypeBox,
			Layout:   linebot.FlexBoxLayoutTypeHorizontal,
			Spacing:  linebot.FlexComponentSpacingTypeSm,
			Contents: buttons,
		}
	}
	return bubble
}
