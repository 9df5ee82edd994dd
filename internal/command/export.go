package command

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/futureppo/groupexport/internal/config"
	"github.com/futureppo/groupexport/internal/export"
	"github.com/futureppo/groupexport/internal/onebot"
	"go.uber.org/zap"
)

// User-facing messages. Failure text stays generic; detail goes to the log only.
const (
	msgInvalidGroupID  = "群号必须是纯数字"
	msgGroupOnly       = "请在群聊中使用，或在命令后指定群号"
	msgAdminOnly       = "仅管理员可导出所有群数据"
	msgExportFailed    = "导出群数据时出错"
	msgExportAllFailed = "导出所有群数据时出错"
	msgNothingExported = "没有成功导出任何群的数据"
	msgUploadFailed    = "文件上传失败"
)

// exportOne exports one group's roster as a single-sheet workbook and uploads
// it back into the invoking chat. arg is the optional group id supplied after
// the command keyword; without it the invoking group is exported.
func (h *Handler) exportOne(ctx context.Context, ev *onebot.MessageEvent, arg string, r Replier) {
	var groupText string
	switch {
	case arg != "":
		if !isDigits(arg) {
			h.reply(ctx, r, msgInvalidGroupID)
			return
		}
		groupText = arg
	case ev.IsGroup():
		groupText = strconv.FormatInt(ev.GroupID, 10)
	default:
		h.reply(ctx, r, msgGroupOnly)
		return
	}

	groupID, err := strconv.ParseInt(groupText, 10, 64)
	if err != nil {
		h.reply(ctx, r, msgInvalidGroupID)
		return
	}

	if arg == "" {
		h.reply(ctx, r, "正在导出本群数据...")
	} else {
		h.reply(ctx, r, fmt.Sprintf("正在导出群%s的数据...", groupText))
	}

	members, err := h.client.GetGroupMemberList(ctx, groupID)
	if err != nil {
		h.logger.Error("group member fetch failed", zap.Int64("group_id", groupID), zap.Error(err))
		h.reply(ctx, r, msgExportFailed)
		return
	}

	sheet := export.BuildSheet(members, nil, h.logger)
	payload, err := export.BuildSingle(sheet, export.SingleSheetName(groupText))
	if err != nil {
		h.logger.Error("workbook assembly failed", zap.Int64("group_id", groupID), zap.Error(err))
		h.reply(ctx, r, msgExportFailed)
		return
	}

	name := fmt.Sprintf("群聊%s的%d名成员的数据.xlsx", groupText, len(sheet.Rows))
	h.deliver(ctx, ev, payload, name, r)
}

// exportAll exports every group the bot has joined into one multi-sheet
// workbook. Admin-only; a failed group is skipped, not fatal.
func (h *Handler) exportAll(ctx context.Context, bot *config.BotConfig, ev *onebot.MessageEvent, r Replier) {
	if !bot.IsAdmin(ev.UserID) {
		h.reply(ctx, r, msgAdminOnly)
		return
	}

	groups, err := h.client.GetGroupList(ctx)
	if err != nil {
		h.logger.Error("group list fetch failed", zap.Error(err))
		h.reply(ctx, r, msgExportAllFailed)
		return
	}
	h.reply(ctx, r, fmt.Sprintf("正在导出%d个群的数据...", len(groups)))

	identities := make([]export.GroupIdentity, len(groups))
	for i, g := range groups {
		identities[i] = export.GroupIdentity{ID: g.GroupID, Name: g.GroupName}
	}
	payload, totalMembers, processed, err := export.BuildMulti(identities,
		func(g export.GroupIdentity) ([]json.RawMessage, error) {
			return h.client.GetGroupMemberList(ctx, g.ID)
		}, h.logger)
	if err != nil {
		h.logger.Error("workbook assembly failed", zap.Error(err))
		h.reply(ctx, r, msgExportAllFailed)
		return
	}
	if processed == 0 {
		h.logger.Warn("no groups exported", zap.Int("groups", len(groups)))
		h.reply(ctx, r, msgNothingExported)
		return
	}

	name := fmt.Sprintf("%d个群的%d名成员的数据.xlsx", processed, totalMembers)
	h.deliver(ctx, ev, payload, name, r)
}

// deliver uploads the workbook into the invoking chat: the group's shared
// files for a group message, a private file otherwise.
func (h *Handler) deliver(ctx context.Context, ev *onebot.MessageEvent, payload []byte, name string, r Replier) {
	uri := export.EncodeBase64URI(payload)
	var err error
	if ev.IsGroup() {
		err = h.client.UploadGroupFile(ctx, ev.GroupID, uri, name)
	} else {
		err = h.client.UploadPrivateFile(ctx, ev.UserID, uri, name)
	}
	if err != nil {
		h.logger.Error("file upload failed", zap.String("name", name), zap.Error(err))
		h.reply(ctx, r, msgUploadFailed)
		return
	}
	h.logger.Info("file uploaded", zap.String("name", name), zap.Int("bytes", len(payload)))
}
