package drafting

import (
	"encoding/json"
	"fmt"

	"github.com/TheSummerRain/wutongjiebang/internal/llm"
	"github.com/TheSummerRain/wutongjiebang/internal/models"
)

// Greeting - первое сообщение ассистента в новой сессии черновика.
const Greeting = "您好，我是立项辅助助手。请告诉我您想发起什么样的创新项目？您可以直接用大白话描述，例如：“我想给营业厅做一个虚拟人接待系统”。"

// Фиксированные резервные реплики: без настроенного ключа API диалог
// продолжается вручную, поэтому сбой генерации никогда не виден как ошибка.
const (
	// FallbackFollowUp используется, когда сервис генерации недоступен.
	FallbackFollowUp = "请您继续补充项目的预算范围或交付时间要求。"
	// FallbackTechFollowUp используется при прочих сбоях генерации.
	FallbackTechFollowUp = "请问该项目的核心技术指标有哪些？"
)

// buildExtractionMessages строит запрос извлечения: модель должна вернуть
// обновлённый JSON требования по стенограмме и текущему черновику.
func buildExtractionMessages(transcript []models.ChatMessage, fields models.DraftFields) []llm.Message {
	draftJSON, _ := json.Marshal(fields)

	history := make([]string, 0, len(transcript))
	for _, msg := range transcript {
		history = append(history, fmt.Sprintf("%s: %s", msg.Role, msg.Text))
	}
	historyJSON, _ := json.Marshal(history)

	return []llm.Message{
		{
			Role: llm.RoleSystem,
			Content: "你是一名中国移动的项目立项辅助AI。\n" +
				"请分析对话内容，提取关键信息更新需求单JSON。\n" +
				"必须返回合法的 JSON 格式，不要包含 ```json 标记。\n\n" +
				"当前草稿状态: " + string(draftJSON),
		},
		{
			Role: llm.RoleUser,
			Content: "这是最新的对话历史: " + string(historyJSON) + "\n\n" +
				"请提取变更并返回完整的更新后JSON对象（包含 title, budget, deadline, description, tags, department 字段）。\n" +
				"如果 description 需要更新，请将用户零散描述整合成通顺的公文段落。",
		},
	}
}

// buildFollowUpMessages строит запрос одного встречного вопроса,
// ведущего пользователя к заполнению недостающих полей.
func buildFollowUpMessages(fields models.DraftFields) []llm.Message {
	draftJSON, _ := json.Marshal(fields)

	return []llm.Message{
		{
			Role:    llm.RoleSystem,
			Content: "你是一名严谨的立项审核专家。",
		},
		{
			Role: llm.RoleUser,
			Content: "基于当前的项目草稿: " + string(draftJSON) + "\n" +
				"请向用户提出*一个*最关键的缺失问题，引导用户完善需求。\n" +
				"例如：如果缺少预算，就问预算；如果缺少技术指标，就问具体指标。\n" +
				"保持简短，像聊天一样。",
		},
	}
}

// buildDraftMessages строит запрос разового составления текста требования.
func buildDraftMessages(topic, constraints string) []llm.Message {
	return []llm.Message{
		{
			Role:    llm.RoleSystem,
			Content: "你是一名中国移动集团的高级技术顾问。请语调正式、严谨、符合央企公文规范。",
		},
		{
			Role: llm.RoleUser,
			Content: "请根据以下主题，起草一份“揭榜挂帅”项目需求文档。\n\n" +
				fmt.Sprintf("项目主题: %q\n", topic) +
				"关键约束/备注: " + constraints + "\n\n" +
				"请按以下结构撰写（请直接输出中文内容，不要带Markdown标题）：\n" +
				"1. 项目背景\n2. 核心建设目标\n3. 关键技术指标要求\n" +
				"字数控制在300字以内。",
		},
	}
}

// buildOutlineMessages строит запрос плана технического ответа для участника торгов.
func buildOutlineMessages(requirementDesc string) []llm.Message {
	return []llm.Message{
		{
			Role:    llm.RoleSystem,
			Content: "你是一名通信行业的首席解决方案架构师。",
		},
		{
			Role: llm.RoleUser,
			Content: "请根据以下项目需求，为我生成一份结构化的技术应答方案提纲，帮助我参与竞标。\n\n" +
				fmt.Sprintf("需求描述: %q\n\n", requirementDesc) +
				"提纲应包含以下部分（请使用中文）：\n" +
				"1. 总体架构设计思路\n2. 拟采用的关键技术栈\n3. 方案核心优势（为什么选择我们？）\n\n" +
				"保持简洁，使用要点形式。",
		},
	}
}

// buildAnalysisMessages строит запрос оценки сложности описания требования.
func buildAnalysisMessages(description string) []llm.Message {
	return []llm.Message{
		{
			Role:    llm.RoleSystem,
			Content: "你是一个技术评估AI。请以 JSON 格式返回结果，包含 score (0-100整数) 和 summary (中文一句话摘要)。",
		},
		{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf("分析以下技术需求的技术实现复杂度: %q", description),
		},
	}
}
