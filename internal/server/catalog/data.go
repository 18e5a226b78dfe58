package catalog

var entries = map[Category]entry{
	Primary: {
		prompts: [PromptCount]string{
			"あなたの生まれた時代はどんな時代でしたか？",
			"生まれた場所と、幼い頃の思い出は？",
			"家族について教えてください",
			"学生時代の思い出は？",
			"最初の職場での経験は？",
			"人生での大きな決断は？",
			"仕事でやりがいを感じたことは？",
			"人生で出会った大切な人は？",
			"趣味や好きなことは？",
			"人生での失敗や試練は？",
			"それらからどう学びましたか？",
			"今、大切にしていることは？",
			"家族や後世代に伝えたいことは？",
			"人生で一番幸せだった時は？",
			"未来へのメッセージは？",
		},
		labels: Labels{
			CategoryNoun:     "の物語",
			StoryTitle:       "あなたの物語",
			InterviewTitle:   "インタビュー記録",
			TimelineTitle:    "人生年表",
			PhotosTitle:      "思い出の写真",
			PossessiveSuffix: "さんの人生",
		},
	},
	Company: {
		prompts: [PromptCount]string{
			"会社を創業したきっかけは何でしたか？",
			"創業当時はどんな時代でしたか？",
			"最初の事業や商品について教えてください",
			"創業メンバーや最初の社員について教えてください",
			"最初のお客様との思い出は？",
			"会社にとって大きな転機は何でしたか？",
			"経営で最も苦しかった時期は？",
			"その困難をどう乗り越えましたか？",
			"会社が大切にしてきた理念や価値観は？",
			"社員やお取引先との印象に残る出来事は？",
			"地域や社会とのつながりについて教えてください",
			"誇りに思っている仕事や実績は？",
			"事業を引き継ぐ人に伝えたいことは？",
			"会社の今後に期待することは？",
			"これまで支えてくれた方々へのメッセージは？",
		},
		labels: Labels{
			CategoryNoun:     "の会社史",
			StoryTitle:       "会社の歩み",
			InterviewTitle:   "聞き取り記録",
			TimelineTitle:    "会社年表",
			PhotosTitle:      "会社の写真",
			PossessiveSuffix: "さんの会社史",
		},
	},
	EndOfLife: {
		prompts: [PromptCount]string{
			"これまでの人生を振り返って、どんな人生でしたか？",
			"家族構成と、それぞれへの思いを教えてください",
			"大切にしている友人や知人は誰ですか？",
			"医療や介護について希望することは？",
			"延命治療についての考えを教えてください",
			"お葬式やお墓についての希望は？",
			"財産や大切な品の扱いについての希望は？",
			"ペットや大切にしているものの今後について",
			"連絡してほしい人、してほしくない人は？",
			"デジタル機器やアカウントの扱いについて",
			"やり残したこと、これからやりたいことは？",
			"人生で一番の思い出は？",
			"家族に感謝していることは？",
			"伝えておきたい言葉は？",
			"最後に残したいメッセージは？",
		},
		labels: Labels{
			CategoryNoun:     "の終活ノート",
			StoryTitle:       "大切な記録",
			InterviewTitle:   "聞き取り記録",
			TimelineTitle:    "年表",
			PhotosTitle:      "大切な写真",
			PossessiveSuffix: "さんの終活ノート",
		},
	},
	Other: {
		prompts: [PromptCount]string{
			"この記録のテーマを教えてください",
			"このテーマに関わるようになったきっかけは？",
			"始まりの頃の様子を教えてください",
			"関わった人々について教えてください",
			"印象に残っている出来事は？",
			"大きな変化や転機は何でしたか？",
			"苦労したこと、困難だったことは？",
			"それをどう乗り越えましたか？",
			"嬉しかったこと、達成感を得たことは？",
			"大切にしてきた考え方は？",
			"このテーマから学んだことは？",
			"今の状況を教えてください",
			"これからの展望は？",
			"次の世代に伝えたいことは？",
			"最後にひとことお願いします",
		},
		labels: Labels{
			CategoryNoun:     "の記録",
			StoryTitle:       "記録",
			InterviewTitle:   "聞き取り記録",
			TimelineTitle:    "年表",
			PhotosTitle:      "写真",
			PossessiveSuffix: "さんの記録",
		},
	},
}
